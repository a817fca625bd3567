package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
)

func TestLivroCreateDefaults(t *testing.T) {
	db := testDB(t)
	l := novoLivro(t, db, "Dom Casmurro", intPtr(256), true)

	assert.Equal(t, model.IdiomaPadrao, l.Idioma)
	assert.Equal(t, model.IdadeRecomendadaPadrao, l.IdadeRecomendada)
	assert.Equal(t, model.EstadoConservacaoPadrao, l.EstadoConservacao)
	assert.True(t, l.Disponivel)
	assert.Equal(t, "disponivel", l.Status)
	assert.Zero(t, l.NotaMedia)
	assert.Zero(t, l.TotalAvaliacoes)
}

func TestLivroISBNDuplicado(t *testing.T) {
	db := testDB(t)
	repo := NewLivroRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Livro{Titulo: "A", Autor: "X", ISBN: strPtr("123")}))
	err := repo.Create(ctx, &model.Livro{Titulo: "B", Autor: "Y", ISBN: strPtr("123")})
	assert.ErrorIs(t, err, ErrISBNExists)

	// ISBN nulo não conta como duplicata
	require.NoError(t, repo.Create(ctx, &model.Livro{Titulo: "C", Autor: "Z"}))
	require.NoError(t, repo.Create(ctx, &model.Livro{Titulo: "D", Autor: "W"}))
}

func TestLivroListFiltros(t *testing.T) {
	db := testDB(t)
	repo := NewLivroRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Livro{Titulo: "Fantasia 1", Autor: "A", Genero: strPtr("Fantasia")}))
	require.NoError(t, repo.Create(ctx, &model.Livro{Titulo: "Romance 1", Autor: "B", Genero: strPtr("Romance"), ClassicosFamilia: true}))

	fantasia, err := repo.List(ctx, FiltroLivros{Genero: strPtr("Fantasia")})
	require.NoError(t, err)
	require.Len(t, fantasia, 1)
	assert.Equal(t, "Fantasia 1", fantasia[0].Titulo)

	classicos, err := repo.List(ctx, FiltroLivros{Classicos: true})
	require.NoError(t, err)
	require.Len(t, classicos, 1)
	assert.Equal(t, "Romance 1", classicos[0].Titulo)

	todos, err := repo.List(ctx, FiltroLivros{})
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

func TestLivroDeleteBloqueadoQuandoEmprestado(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	livros := NewLivroRepo(db)
	emprestimos := NewEmprestimoRepo(db)

	m := novoMembro(t, db, "Ana", "ana@familia.com")
	l := novoLivro(t, db, "Duna", intPtr(680), false)

	_, err := emprestimos.Emprestar(ctx, &model.Emprestimo{
		IDMembro: m.ID, IDLivro: l.ID, TipoEmprestimo: model.TipoInterno,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, livros.Delete(ctx, l.ID), ErrLivroEmprestado)
	assert.ErrorIs(t, livros.Delete(ctx, 9999), ErrLivroNotFound)
}
