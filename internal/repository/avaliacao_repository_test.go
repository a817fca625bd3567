package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
)

func TestAvaliacaoCreateCreditaPontos(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewAvaliacaoRepo(db)

	m := novoMembro(t, db, "Ana", "ana@familia.com")
	l := novoLivro(t, db, "Duna", nil, false)

	a, err := repo.Create(ctx, &model.Avaliacao{
		IDMembro: m.ID, IDLivro: l.ID, Nota: 5,
		Comentario: strPtr("Excelente"), Tags: []string{"ficção", "épico"},
		LeituraCompleta: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ficção", "épico"}, a.Tags)
	require.NotNil(t, a.TituloLivro)
	assert.Equal(t, "Duna", *a.TituloLivro)
	assert.Equal(t, model.PontosAvaliacao, pontosDe(t, db, m.ID))

	// o agregado do livro reflete a avaliação
	livro, err := NewLivroRepo(db).GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, livro.NotaMedia)
	assert.Equal(t, 1, livro.TotalAvaliacoes)
}

func TestAvaliacaoDuplicadaNaoPontuaDuasVezes(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewAvaliacaoRepo(db)

	m := novoMembro(t, db, "Ana", "ana@familia.com")
	l := novoLivro(t, db, "Duna", nil, false)

	_, err := repo.Create(ctx, &model.Avaliacao{IDMembro: m.ID, IDLivro: l.ID, Nota: 4})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &model.Avaliacao{IDMembro: m.ID, IDLivro: l.ID, Nota: 2})
	assert.ErrorIs(t, err, ErrAvaliacaoDuplicada)
	assert.Equal(t, model.PontosAvaliacao, pontosDe(t, db, m.ID))
}

func TestAvaliacaoDeleteEstornaComPiso(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewAvaliacaoRepo(db)

	m := novoMembro(t, db, "Ana", "ana@familia.com")
	l := novoLivro(t, db, "Duna", nil, false)

	a, err := repo.Create(ctx, &model.Avaliacao{IDMembro: m.ID, IDLivro: l.ID, Nota: 4})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.Zero(t, pontosDe(t, db, m.ID))

	// mesmo com pontos zerados por outros caminhos, o estorno nunca fica negativo
	b, err := repo.Create(ctx, &model.Avaliacao{IDMembro: m.ID, IDLivro: l.ID, Nota: 4})
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "UPDATE membros_familia SET pontos_leitura = 5 WHERE id_membro = ?", m.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, b.ID))
	assert.Zero(t, pontosDe(t, db, m.ID))

	assert.ErrorIs(t, repo.Delete(ctx, 9999), ErrAvaliacaoNotFound)
}

func TestAvaliacaoUpdate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewAvaliacaoRepo(db)

	m := novoMembro(t, db, "Ana", "ana@familia.com")
	l := novoLivro(t, db, "Duna", nil, false)
	a, err := repo.Create(ctx, &model.Avaliacao{IDMembro: m.ID, IDLivro: l.ID, Nota: 3})
	require.NoError(t, err)

	atualizada, err := repo.Update(ctx, a.ID, model.AvaliacaoPatch{
		Nota:       intPtr(5),
		Comentario: strPtr("Relido e amado"),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, atualizada.Nota)
	// editar não mexe nos pontos
	assert.Equal(t, model.PontosAvaliacao, pontosDe(t, db, m.ID))
}

func TestTopRated(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewAvaliacaoRepo(db)

	ana := novoMembro(t, db, "Ana", "ana@familia.com")
	bruno := novoMembro(t, db, "Bruno", "bruno@familia.com")
	bom := novoLivro(t, db, "Bom", nil, false)
	otimo := novoLivro(t, db, "Ótimo", nil, false)
	novoLivro(t, db, "Sem Avaliação", nil, false)

	_, err := repo.Create(ctx, &model.Avaliacao{IDMembro: ana.ID, IDLivro: bom.ID, Nota: 3})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &model.Avaliacao{IDMembro: bruno.ID, IDLivro: bom.ID, Nota: 4})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &model.Avaliacao{IDMembro: ana.ID, IDLivro: otimo.ID, Nota: 5})
	require.NoError(t, err)

	top, err := repo.TopRated(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2) // livros sem avaliação ficam de fora

	assert.Equal(t, "Ótimo", top[0].Titulo)
	assert.Equal(t, 5.0, top[0].NotaMedia)
	assert.Equal(t, "Bom", top[1].Titulo)
	assert.Equal(t, 3.5, top[1].NotaMedia)
	assert.Equal(t, 2, top[1].TotalAvaliacoes)
}
