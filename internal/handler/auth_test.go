package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
	"github.com/lucasmrqs/biblioteca-familiar/internal/repository"
	"github.com/lucasmrqs/biblioteca-familiar/internal/utils"
)

func TestAuthLogin(t *testing.T) {
	db := testDB(t)
	membros := repository.NewMembroRepo(db)
	h := NewAuthHandler(membros, "segredo-de-teste", time.Hour)

	hash, err := utils.HashPassword("senha123", 4)
	require.NoError(t, err)
	m := &model.Membro{Nome: "Ana", Email: "ana@familia.com", SenhaHash: &hash}
	require.NoError(t, membros.Create(context.Background(), m))

	rec := call(t, h.Login, http.MethodPost, "/api/auth/login",
		map[string]any{"email": "ana@familia.com", "senha": "senha123"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.NotEmpty(t, body["access_token"])
	require.Equal(t, "Bearer", body["token_type"])

	claims, err := utils.ParseAccessToken("segredo-de-teste", body["access_token"].(string))
	require.NoError(t, err)
	require.Equal(t, m.ID, claims.IDMembro)

	// senha errada e email desconhecido respondem igual
	rec = call(t, h.Login, http.MethodPost, "/api/auth/login",
		map[string]any{"email": "ana@familia.com", "senha": "errada"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	msgSenha := decode(t, rec)["erro"]

	rec = call(t, h.Login, http.MethodPost, "/api/auth/login",
		map[string]any{"email": "ninguem@familia.com", "senha": "qualquer"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, msgSenha, decode(t, rec)["erro"])
}

func TestAuthLoginMembroInativo(t *testing.T) {
	db := testDB(t)
	membros := repository.NewMembroRepo(db)
	h := NewAuthHandler(membros, "segredo-de-teste", time.Hour)

	hash, err := utils.HashPassword("senha123", 4)
	require.NoError(t, err)
	m := &model.Membro{Nome: "Ana", Email: "ana@familia.com", SenhaHash: &hash}
	require.NoError(t, membros.Create(context.Background(), m))
	require.NoError(t, membros.Desativar(context.Background(), m.ID))

	rec := call(t, h.Login, http.MethodPost, "/api/auth/login",
		map[string]any{"email": "ana@familia.com", "senha": "senha123"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
