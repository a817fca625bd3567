package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/lucasmrqs/biblioteca-familiar/internal/config"
	"github.com/lucasmrqs/biblioteca-familiar/internal/database"
	"github.com/lucasmrqs/biblioteca-familiar/internal/logger"
	"github.com/lucasmrqs/biblioteca-familiar/internal/queue"
	"github.com/lucasmrqs/biblioteca-familiar/internal/repository"
	"github.com/lucasmrqs/biblioteca-familiar/internal/router"
)

func runServe() error {
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Init(cfg.Env)
	log := logger.L()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.EnsureSchema(context.Background(), db, database.DialectMySQL); err != nil {
		return err
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	if cfg.EventsEnabled {
		go func() {
			if err := queue.StartEmprestimoConsumer(); err != nil {
				log.WithError(err).Error("consumidor de eventos encerrado")
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	router.Register(e, router.Deps{
		DB:            db,
		Cfg:           cfg,
		Membros:       repository.NewMembroRepo(db),
		Livros:        repository.NewLivroRepo(db),
		Emprestimos:   repository.NewEmprestimoRepo(db),
		Avaliacoes:    repository.NewAvaliacaoRepo(db),
		Wishlist:      repository.NewWishlistRepo(db),
		Estatisticas:  repository.NewEstatisticasRepo(db),
		Redis:         rdb,
		RateLimitConf: config.LoadRateLimitConfig(),
	})

	go func() {
		addr := ":" + cfg.Port
		log.WithField("addr", addr).WithField("env", cfg.Env).Info("servidor iniciado")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("servidor abortado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("encerrando servidor")
	return e.Shutdown(ctx)
}
