// Package middleware holds the Echo middlewares: JWT authentication, role
// checks and the Redis rate limiter. Authentication is opt-in; when disabled
// every middleware here degrades to a pass-through.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lucasmrqs/biblioteca-familiar/internal/utils"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	ContextMembroID = "id_membro"
	ContextEmail    = "email"
	ContextTipo     = "tipo"
)

// JWTAuth validates the Bearer token and stores the member identity on the
// request context. When enabled is false it is a no-op.
func JWTAuth(enabled bool, secret string) echo.MiddlewareFunc {
	if !enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"erro": "token de acesso ausente"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"erro": "token inválido ou expirado"})
			}
			c.Set(ContextMembroID, claims.IDMembro)
			c.Set(ContextEmail, claims.Email)
			c.Set(ContextTipo, claims.Tipo)
			return next(c)
		}
	}
}
