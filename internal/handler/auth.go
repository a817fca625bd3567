package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lucasmrqs/biblioteca-familiar/internal/repository"
	"github.com/lucasmrqs/biblioteca-familiar/internal/utils"
)

// AuthHandler serves login when authentication is enabled. Members register
// through POST /api/membros with a senha field; login exchanges email and
// password for an access token.
type AuthHandler struct {
	Membros   *repository.MembroRepo
	JWTSecret string
	AccessTTL time.Duration
}

func NewAuthHandler(m *repository.MembroRepo, secret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{Membros: m, JWTSecret: secret, AccessTTL: ttl}
}

// Login handles POST /api/auth/login. Wrong email and wrong password answer
// identically so the response does not reveal which members exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email string `json:"email"`
		Senha string `json:"senha"`
	}
	if err := c.Bind(&body); err != nil {
		return erro(c, http.StatusBadRequest, "corpo da requisição inválido")
	}
	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" || body.Senha == "" {
		return erro(c, http.StatusBadRequest, "email e senha são obrigatórios")
	}

	m, err := h.Membros.GetByEmail(c.Request().Context(), body.Email)
	if err != nil {
		if errors.Is(err, repository.ErrMembroNotFound) {
			return erro(c, http.StatusUnauthorized, "credenciais inválidas")
		}
		return responderErro(c, err)
	}
	if !m.Ativo || m.SenhaHash == nil || !utils.VerifyPassword(*m.SenhaHash, body.Senha) {
		return erro(c, http.StatusUnauthorized, "credenciais inválidas")
	}

	token, err := utils.GenerateAccessToken(h.JWTSecret, m.ID, m.Email, m.Tipo, h.AccessTTL)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(h.AccessTTL.Seconds()),
		"membro":       m,
	})
}
