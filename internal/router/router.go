// Package router wires the HTTP routes onto the Echo instance. The API lives
// under /api; the health probe is served at the root so load balancers skip
// the rate limiter and the JWT check.
package router

import (
	"database/sql"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/lucasmrqs/biblioteca-familiar/internal/config"
	"github.com/lucasmrqs/biblioteca-familiar/internal/handler"
	"github.com/lucasmrqs/biblioteca-familiar/internal/middleware"
	"github.com/lucasmrqs/biblioteca-familiar/internal/repository"
)

// Deps bundles everything route registration needs.
type Deps struct {
	DB  *sql.DB
	Cfg config.Config

	Membros      *repository.MembroRepo
	Livros       *repository.LivroRepo
	Emprestimos  *repository.EmprestimoRepo
	Avaliacoes   *repository.AvaliacaoRepo
	Wishlist     *repository.WishlistRepo
	Estatisticas *repository.EstatisticasRepo

	Redis         *redis.Client
	RateLimitConf config.RateLimitConfig
}

// Register mounts every route. With authentication disabled the API group
// carries no JWT middleware; destructive member and book operations are
// restricted to administrators when it is enabled.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health(d.DB))

	membros := handler.NewMembroHandler(d.Membros, d.Emprestimos, d.Cfg.BcryptCost)
	livros := handler.NewLivroHandler(d.Livros)
	emprestimos := handler.NewEmprestimoHandler(d.Emprestimos, d.Membros, d.Cfg.MembroExternoPadrao, d.Cfg.EventsEnabled)
	avaliacoes := handler.NewAvaliacaoHandler(d.Avaliacoes, d.Livros, d.Membros)
	wishlist := handler.NewWishlistHandler(d.Wishlist, d.Membros, d.Livros)
	estatisticas := handler.NewEstatisticasHandler(d.Estatisticas, d.Emprestimos)

	api := e.Group("/api")
	api.Use(middleware.RateLimit(d.RateLimitConf, d.Redis))

	if d.Cfg.AuthEnabled {
		auth := handler.NewAuthHandler(d.Membros, d.Cfg.JWTSecret,
			time.Duration(d.Cfg.AccessTTLMin)*time.Minute)
		api.POST("/auth/login", auth.Login)
		api.Use(middleware.JWTAuth(true, d.Cfg.JWTSecret))
	}
	admin := middleware.RequireTipo(d.Cfg.AuthEnabled, "administrador")

	api.GET("/membros", membros.List)
	api.POST("/membros", membros.Create)
	api.GET("/membros/:id", membros.Get)
	api.PUT("/membros/:id", membros.Update)
	api.DELETE("/membros/:id", membros.Delete, admin)
	api.GET("/membros/:id/historico", membros.Historico)

	api.GET("/livros", livros.List)
	api.POST("/livros", livros.Create)
	api.GET("/livros/:id", livros.Get)
	api.PUT("/livros/:id", livros.Update)
	api.DELETE("/livros/:id", livros.Delete, admin)

	api.GET("/emprestimos", emprestimos.List)
	api.POST("/emprestimos", emprestimos.Create)
	api.GET("/emprestimos/:id", emprestimos.Get)
	api.GET("/emprestimos/membro/:id_membro", emprestimos.ListByMembro)
	api.PUT("/emprestimos/:id/devolver", emprestimos.Devolver)

	api.GET("/avaliacoes/livro/:id_livro", avaliacoes.ListByLivro)
	api.GET("/avaliacoes/membro/:id_membro", avaliacoes.ListByMembro)
	api.GET("/avaliacoes/top", avaliacoes.Top)
	api.GET("/avaliacoes/:id", avaliacoes.Get)
	api.POST("/avaliacoes", avaliacoes.Create)
	api.PUT("/avaliacoes/:id", avaliacoes.Update)
	api.DELETE("/avaliacoes/:id", avaliacoes.Delete)

	api.GET("/wishlist", wishlist.List)
	api.POST("/wishlist", wishlist.Add)
	api.GET("/wishlist/sugestoes", wishlist.Sugestoes)
	api.GET("/wishlist/:id", wishlist.Get)
	api.PUT("/wishlist/:id", wishlist.Update)
	api.DELETE("/wishlist/:id", wishlist.Delete)
	api.POST("/wishlist/:id/comprar", wishlist.Comprar)

	api.GET("/estatisticas", estatisticas.Get)
}
