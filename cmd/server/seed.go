package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"

	"github.com/lucasmrqs/biblioteca-familiar/internal/config"
	"github.com/lucasmrqs/biblioteca-familiar/internal/database"
	"github.com/lucasmrqs/biblioteca-familiar/internal/logger"
	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
	"github.com/lucasmrqs/biblioteca-familiar/internal/repository"
)

func ptr[T any](v T) *T { return &v }

// runSeed loads a small starter set for local development. Existing rows are
// left alone: a duplicate email or ISBN just skips that entry.
func runSeed(ctx context.Context) error {
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Init(cfg.Env)
	log := logger.L()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db, database.DialectMySQL); err != nil {
		return err
	}

	membros := repository.NewMembroRepo(db)
	livros := repository.NewLivroRepo(db)

	for _, m := range []*model.Membro{
		{Nome: "Lucas Marques", Email: "lucas@familia.com", Tipo: model.TipoAdministrador,
			GenerosFavoritos: []string{"Ficção Científica", "História"}},
		{Nome: "Ana Marques", Email: "ana@familia.com",
			GenerosFavoritos: []string{"Romance", "Fantasia"}},
		{Nome: "Pedro Marques", Email: "pedro@familia.com", Tipo: model.TipoCrianca,
			Idade: ptr(9), GenerosFavoritos: []string{"Aventura"}},
	} {
		if err := membros.Create(ctx, m); err != nil {
			if errors.Is(err, repository.ErrEmailExists) {
				continue
			}
			return err
		}
		log.WithField("membro", m.Nome).Info("membro criado")
	}

	for _, l := range []*model.Livro{
		{Titulo: "O Pequeno Príncipe", Autor: "Antoine de Saint-Exupéry",
			ISBN: ptr("9788574068502"), Genero: ptr("Infantil"), NumPaginas: ptr(96),
			IdadeRecomendada: "Todas", ClassicosFamilia: true, ValorEstimado: ptr(29.90)},
		{Titulo: "Dom Casmurro", Autor: "Machado de Assis",
			ISBN: ptr("9788535910663"), Genero: ptr("Romance"), NumPaginas: ptr(256),
			ClassicosFamilia: true, ValorEstimado: ptr(34.50)},
		{Titulo: "Duna", Autor: "Frank Herbert",
			ISBN: ptr("9786555655339"), Genero: ptr("Ficção Científica"), NumPaginas: ptr(680),
			IdadeRecomendada: "12+", ValorEstimado: ptr(89.90)},
	} {
		if err := livros.Create(ctx, l); err != nil {
			if errors.Is(err, repository.ErrISBNExists) {
				continue
			}
			return err
		}
		log.WithField("livro", l.Titulo).Info("livro catalogado")
	}
	return nil
}
