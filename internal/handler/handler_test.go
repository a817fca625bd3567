package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/lucasmrqs/biblioteca-familiar/internal/database"
	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
	"github.com/lucasmrqs/biblioteca-familiar/internal/repository"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.EnsureSchema(context.Background(), db, database.DialectSQLite))
	return db
}

// call builds a request against a single handler. Path params are passed as
// name/value pairs.
func call(t *testing.T, h echo.HandlerFunc, method, target string, body any, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	names, values := []string{}, []string{}
	for i := 0; i+1 < len(params); i += 2 {
		names, values = append(names, params[i]), append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	require.NoError(t, h(c))
	return rec
}

func itoa(id uint64) string { return strconv.FormatUint(id, 10) }

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func seedMembro(t *testing.T, db *sql.DB, nome, email string) *model.Membro {
	t.Helper()
	m := &model.Membro{Nome: nome, Email: email}
	require.NoError(t, repository.NewMembroRepo(db).Create(context.Background(), m))
	return m
}

func seedLivro(t *testing.T, db *sql.DB, titulo string, classico bool) *model.Livro {
	t.Helper()
	l := &model.Livro{Titulo: titulo, Autor: "Autor", ClassicosFamilia: classico}
	require.NoError(t, repository.NewLivroRepo(db).Create(context.Background(), l))
	return l
}

func TestMembroHandlerCreate(t *testing.T) {
	db := testDB(t)
	h := NewMembroHandler(repository.NewMembroRepo(db), repository.NewEmprestimoRepo(db), 4)

	rec := call(t, h.Create, http.MethodPost, "/api/membros",
		map[string]any{"nome": "Ana", "email": "ana@familia.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "Ana", body["nome"])
	require.Equal(t, "Iniciante", body["nivel_leitor"])
	require.NotContains(t, rec.Body.String(), "senha_hash")

	// sem email -> 400 com corpo {"erro": ...}
	rec = call(t, h.Create, http.MethodPost, "/api/membros", map[string]any{"nome": "Sem Email"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decode(t, rec), "erro")

	// email repetido -> 409
	rec = call(t, h.Create, http.MethodPost, "/api/membros",
		map[string]any{"nome": "Clone", "email": "ana@familia.com"})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestMembroHandlerGetInexistente(t *testing.T) {
	db := testDB(t)
	h := NewMembroHandler(repository.NewMembroRepo(db), repository.NewEmprestimoRepo(db), 4)

	rec := call(t, h.Get, http.MethodGet, "/api/membros/42", nil, "id", "42")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, h.Get, http.MethodGet, "/api/membros/abc", nil, "id", "abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmprestimoHandlerFluxo(t *testing.T) {
	db := testDB(t)
	h := NewEmprestimoHandler(repository.NewEmprestimoRepo(db), repository.NewMembroRepo(db), 1, false)
	m := seedMembro(t, db, "Ana", "ana@familia.com")
	l := seedLivro(t, db, "Duna", false)

	rec := call(t, h.Create, http.MethodPost, "/api/emprestimos",
		map[string]any{"id_livro": l.ID, "id_membro": m.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	criado := decode(t, rec)
	require.Equal(t, "ativo", criado["status"])
	require.Equal(t, "interno", criado["tipo_emprestimo"])

	// segunda tentativa perde a cópia -> 409
	rec = call(t, h.Create, http.MethodPost, "/api/emprestimos",
		map[string]any{"id_livro": l.ID, "id_membro": m.ID})
	require.Equal(t, http.StatusConflict, rec.Code)

	id := itoa(uint64(criado["id_emprestimo"].(float64)))
	rec = call(t, h.Devolver, http.MethodPut, "/api/emprestimos/"+id+"/devolver", nil,
		"id", id)
	require.Equal(t, http.StatusOK, rec.Code)
	devolucao := decode(t, rec)
	require.Contains(t, devolucao, "mensagem")
	require.Contains(t, devolucao, "emprestimo")
	// sem contagem de páginas, no prazo: 10 + 20
	require.EqualValues(t, 30, devolucao["pontos_ganhos"])
}

func TestEmprestimoHandlerValidacao(t *testing.T) {
	db := testDB(t)
	h := NewEmprestimoHandler(repository.NewEmprestimoRepo(db), repository.NewMembroRepo(db), 1, false)

	rec := call(t, h.Create, http.MethodPost, "/api/emprestimos", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// interno sem membro -> 400
	l := seedLivro(t, db, "Duna", false)
	rec = call(t, h.Create, http.MethodPost, "/api/emprestimos", map[string]any{"id_livro": l.ID})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// externo sem nome_amigo -> 400
	rec = call(t, h.Create, http.MethodPost, "/api/emprestimos",
		map[string]any{"id_livro": l.ID, "tipo_emprestimo": "externo"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmprestimoExternoUsaMembroPadrao(t *testing.T) {
	db := testDB(t)
	padrao := seedMembro(t, db, "Casa", "casa@familia.com")
	h := NewEmprestimoHandler(repository.NewEmprestimoRepo(db), repository.NewMembroRepo(db), padrao.ID, false)
	l := seedLivro(t, db, "Duna", false)

	rec := call(t, h.Create, http.MethodPost, "/api/emprestimos",
		map[string]any{"id_livro": l.ID, "tipo_emprestimo": "externo", "nome_amigo": "Carlos"})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	require.EqualValues(t, padrao.ID, body["id_membro"])
	require.Equal(t, "Carlos", body["nome_amigo"])
}

func TestAvaliacaoHandlerAvisoClassico(t *testing.T) {
	db := testDB(t)
	h := NewAvaliacaoHandler(repository.NewAvaliacaoRepo(db),
		repository.NewLivroRepo(db), repository.NewMembroRepo(db))
	m := seedMembro(t, db, "Ana", "ana@familia.com")
	classico := seedLivro(t, db, "O Pequeno Príncipe", true)

	// nota baixa em clássico sem confirmação: aviso com 200, nada persiste
	rec := call(t, h.Create, http.MethodPost, "/api/avaliacoes",
		map[string]any{"id_membro": m.ID, "id_livro": classico.ID, "nota": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, AvisoClassicoFamilia, decode(t, rec)["aviso"])

	lista, err := repository.NewAvaliacaoRepo(db).ListByLivro(context.Background(), classico.ID)
	require.NoError(t, err)
	require.Empty(t, lista)

	// com confirmado a avaliação é gravada
	rec = call(t, h.Create, http.MethodPost, "/api/avaliacoes",
		map[string]any{"id_membro": m.ID, "id_livro": classico.ID, "nota": 2, "confirmado": true})
	require.Equal(t, http.StatusCreated, rec.Code)

	// nota alta em clássico não exige confirmação
	outro := seedLivro(t, db, "Dom Casmurro", true)
	rec = call(t, h.Create, http.MethodPost, "/api/avaliacoes",
		map[string]any{"id_membro": m.ID, "id_livro": outro.ID, "nota": 5})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestAvaliacaoHandlerUpdateAvisoClassico(t *testing.T) {
	db := testDB(t)
	repo := repository.NewAvaliacaoRepo(db)
	h := NewAvaliacaoHandler(repo, repository.NewLivroRepo(db), repository.NewMembroRepo(db))
	m := seedMembro(t, db, "Ana", "ana@familia.com")
	classico := seedLivro(t, db, "O Pequeno Príncipe", true)

	a, err := repo.Create(context.Background(), &model.Avaliacao{
		IDMembro: m.ID, IDLivro: classico.ID, Nota: 5, LeituraCompleta: true,
	})
	require.NoError(t, err)

	// rebaixar um clássico sem confirmação devolve o aviso e não grava
	rec := call(t, h.Update, http.MethodPut, "/api/avaliacoes/"+itoa(a.ID),
		map[string]any{"nota": 2}, "id", itoa(a.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, AvisoClassicoFamilia, decode(t, rec)["aviso"])

	atual, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, 5, atual.Nota)

	// confirmado grava a nota baixa
	rec = call(t, h.Update, http.MethodPut, "/api/avaliacoes/"+itoa(a.ID),
		map[string]any{"nota": 2, "confirmado": true}, "id", itoa(a.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	atual, err = repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, 2, atual.Nota)

	// nota baixa em livro comum não pede confirmação
	comum := seedLivro(t, db, "Duna", false)
	b, err := repo.Create(context.Background(), &model.Avaliacao{
		IDMembro: m.ID, IDLivro: comum.ID, Nota: 4, LeituraCompleta: true,
	})
	require.NoError(t, err)
	rec = call(t, h.Update, http.MethodPut, "/api/avaliacoes/"+itoa(b.ID),
		map[string]any{"nota": 1}, "id", itoa(b.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, decode(t, rec), "aviso")
}

func TestAvaliacaoHandlerNotaInvalida(t *testing.T) {
	db := testDB(t)
	h := NewAvaliacaoHandler(repository.NewAvaliacaoRepo(db),
		repository.NewLivroRepo(db), repository.NewMembroRepo(db))
	m := seedMembro(t, db, "Ana", "ana@familia.com")
	l := seedLivro(t, db, "Duna", false)

	for _, nota := range []int{0, 6} {
		rec := call(t, h.Create, http.MethodPost, "/api/avaliacoes",
			map[string]any{"id_membro": m.ID, "id_livro": l.ID, "nota": nota})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestWishlistHandlerComprar(t *testing.T) {
	db := testDB(t)
	h := NewWishlistHandler(repository.NewWishlistRepo(db),
		repository.NewMembroRepo(db), repository.NewLivroRepo(db))
	m := seedMembro(t, db, "Ana", "ana@familia.com")

	rec := call(t, h.Add, http.MethodPost, "/api/wishlist",
		map[string]any{"id_membro": m.ID, "titulo_desejado": "Hyperion", "prioridade": "alta"})
	require.Equal(t, http.StatusCreated, rec.Code)
	item := decode(t, rec)
	id := uint64(item["id_wishlist"].(float64))

	rec = call(t, h.Comprar, http.MethodPost, "/api/wishlist/1/comprar",
		map[string]any{"num_paginas": 480}, "id", itoa(id))
	require.Equal(t, http.StatusOK, rec.Code)
	compra := decode(t, rec)
	require.Equal(t, "Livro adicionado ao acervo", compra["mensagem"])
	livro := compra["livro"].(map[string]any)
	require.Equal(t, "Hyperion", livro["titulo"])

	// nem livro nem título -> 400
	rec = call(t, h.Add, http.MethodPost, "/api/wishlist", map[string]any{"id_membro": m.ID})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEstatisticasHandler(t *testing.T) {
	db := testDB(t)
	h := NewEstatisticasHandler(repository.NewEstatisticasRepo(db), repository.NewEmprestimoRepo(db))
	seedMembro(t, db, "Ana", "ana@familia.com")
	seedLivro(t, db, "Duna", false)

	rec := call(t, h.Get, http.MethodGet, "/api/estatisticas", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Contains(t, body, "resumo_geral")
	require.Contains(t, body, "leituras")
	require.Contains(t, body, "rankings")
	require.Contains(t, body, "tendencias")
}
