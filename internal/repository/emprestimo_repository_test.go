package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
)

func TestEmprestarFluxoInterno(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewEmprestimoRepo(db)

	m := novoMembro(t, db, "Ana", "ana@familia.com")
	l := novoLivro(t, db, "Duna", intPtr(680), false)

	e, err := repo.Emprestar(ctx, &model.Emprestimo{
		IDMembro: m.ID, IDLivro: l.ID, TipoEmprestimo: model.TipoInterno,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAtivo, e.Status)
	require.NotNil(t, e.NomeMembro)
	assert.Equal(t, "Ana", *e.NomeMembro)

	// prazo padrão interno: 30 dias
	assert.WithinDuration(t, e.DataEmprestimo.AddDate(0, 0, 30), e.DataPrevistaDevolucao, time.Second)

	// livro fica indisponível
	livro, err := NewLivroRepo(db).GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, livro.Disponivel)
	assert.Equal(t, "emprestado", livro.Status)
}

func TestEmprestarLivroJaEmprestado(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewEmprestimoRepo(db)

	m := novoMembro(t, db, "Ana", "ana@familia.com")
	l := novoLivro(t, db, "Duna", nil, false)

	_, err := repo.Emprestar(ctx, &model.Emprestimo{IDMembro: m.ID, IDLivro: l.ID, TipoEmprestimo: model.TipoInterno})
	require.NoError(t, err)

	_, err = repo.Emprestar(ctx, &model.Emprestimo{IDMembro: m.ID, IDLivro: l.ID, TipoEmprestimo: model.TipoInterno})
	assert.ErrorIs(t, err, ErrLivroIndisponivel)

	_, err = repo.Emprestar(ctx, &model.Emprestimo{IDMembro: m.ID, IDLivro: 9999, TipoEmprestimo: model.TipoInterno})
	assert.ErrorIs(t, err, ErrLivroNotFound)
}

func TestEmprestarMembroInativo(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	m := novoMembro(t, db, "Ana", "ana@familia.com")
	require.NoError(t, NewMembroRepo(db).Desativar(ctx, m.ID))
	l := novoLivro(t, db, "Duna", nil, false)

	_, err := NewEmprestimoRepo(db).Emprestar(ctx, &model.Emprestimo{
		IDMembro: m.ID, IDLivro: l.ID, TipoEmprestimo: model.TipoInterno,
	})
	assert.ErrorIs(t, err, ErrMembroInativo)
}

func TestDevolverNoPrazoCreditaPontos(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewEmprestimoRepo(db)

	m := novoMembro(t, db, "Ana", "ana@familia.com")
	l := novoLivro(t, db, "Duna", intPtr(250), false)

	e, err := repo.Emprestar(ctx, &model.Emprestimo{IDMembro: m.ID, IDLivro: l.ID, TipoEmprestimo: model.TipoInterno})
	require.NoError(t, err)

	devolvido, pontos, err := repo.Devolver(ctx, e.ID)
	require.NoError(t, err)

	// 250 páginas -> 25 pontos, +20 de bônus por devolver no prazo
	assert.Equal(t, 45, pontos)
	assert.Equal(t, 45, pontosDe(t, db, m.ID))
	assert.Equal(t, model.StatusDevolvido, devolvido.Status)
	require.NotNil(t, devolvido.DataDevolucao)
	assert.Zero(t, devolvido.DiasAtraso)

	// livro volta a ficar disponível
	livro, err := NewLivroRepo(db).GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, livro.Disponivel)

	_, _, err = repo.Devolver(ctx, e.ID)
	assert.ErrorIs(t, err, ErrJaDevolvido)
}

func TestDevolverAtrasadoSemBonus(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewEmprestimoRepo(db)

	m := novoMembro(t, db, "Ana", "ana@familia.com")
	l := novoLivro(t, db, "Duna", intPtr(250), false)

	inicio := time.Now().UTC().AddDate(0, 0, -40)
	e, err := repo.Emprestar(ctx, &model.Emprestimo{
		IDMembro: m.ID, IDLivro: l.ID, TipoEmprestimo: model.TipoInterno,
		DataEmprestimo:        inicio,
		DataPrevistaDevolucao: inicio.AddDate(0, 0, 30),
	})
	require.NoError(t, err)

	_, pontos, err := repo.Devolver(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, pontos)
	assert.Equal(t, 25, pontosDe(t, db, m.ID))
}

func TestDevolverExternoNaoPontua(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewEmprestimoRepo(db)

	m := novoMembro(t, db, "Ana", "ana@familia.com")
	l := novoLivro(t, db, "Duna", intPtr(250), false)

	e, err := repo.Emprestar(ctx, &model.Emprestimo{
		IDMembro: m.ID, IDLivro: l.ID, TipoEmprestimo: model.TipoExterno,
		NomeAmigo: strPtr("Carlos"),
	})
	require.NoError(t, err)
	// prazo padrão externo: 14 dias
	assert.WithinDuration(t, e.DataEmprestimo.AddDate(0, 0, 14), e.DataPrevistaDevolucao, time.Second)

	_, pontos, err := repo.Devolver(ctx, e.ID)
	require.NoError(t, err)
	assert.Zero(t, pontos)
	assert.Zero(t, pontosDe(t, db, m.ID))
}

func TestAtualizarAtrasados(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewEmprestimoRepo(db)

	m := novoMembro(t, db, "Ana", "ana@familia.com")
	vencido := novoLivro(t, db, "Vencido", nil, false)
	emDia := novoLivro(t, db, "Em Dia", nil, false)

	inicio := time.Now().UTC().AddDate(0, 0, -20)
	atrasado, err := repo.Emprestar(ctx, &model.Emprestimo{
		IDMembro: m.ID, IDLivro: vencido.ID, TipoEmprestimo: model.TipoInterno,
		DataEmprestimo:        inicio,
		DataPrevistaDevolucao: inicio.AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	_, err = repo.Emprestar(ctx, &model.Emprestimo{IDMembro: m.ID, IDLivro: emDia.ID, TipoEmprestimo: model.TipoInterno})
	require.NoError(t, err)

	n, err := repo.AtualizarAtrasados(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	e, err := repo.GetByID(ctx, atrasado.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAtrasado, e.Status)
	assert.Equal(t, 13, e.DiasAtraso)

	// idempotente
	n, err = repo.AtualizarAtrasados(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	soAtrasados, err := repo.List(ctx, FiltroEmprestimos{Status: model.StatusAtrasado})
	require.NoError(t, err)
	require.Len(t, soAtrasados, 1)
	assert.Equal(t, atrasado.ID, soAtrasados[0].ID)
}
