package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/lucasmrqs/biblioteca-familiar/internal/database"
	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
)

// testDB opens a throwaway sqlite database carrying the application schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.EnsureSchema(context.Background(), db, database.DialectSQLite))
	return db
}

func novoMembro(t *testing.T, db *sql.DB, nome, email string) *model.Membro {
	t.Helper()
	m := &model.Membro{Nome: nome, Email: email}
	require.NoError(t, NewMembroRepo(db).Create(context.Background(), m))
	return m
}

func novoLivro(t *testing.T, db *sql.DB, titulo string, paginas *int, classico bool) *model.Livro {
	t.Helper()
	l := &model.Livro{Titulo: titulo, Autor: "Autor de Teste", NumPaginas: paginas, ClassicosFamilia: classico}
	require.NoError(t, NewLivroRepo(db).Create(context.Background(), l))
	return l
}

func pontosDe(t *testing.T, db *sql.DB, idMembro uint64) int {
	t.Helper()
	m, err := NewMembroRepo(db).GetByID(context.Background(), idMembro)
	require.NoError(t, err)
	return m.PontosLeitura
}

func intPtr(n int) *int         { return &n }
func strPtr(s string) *string   { return &s }
func u64Ptr(n uint64) *uint64   { return &n }
func f64Ptr(f float64) *float64 { return &f }
