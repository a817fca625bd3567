package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireTipo guards a route group to the listed member roles. With
// authentication disabled no identity is on the context and the check is
// skipped.
func RequireTipo(enabled bool, tipos ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(tipos))
	for _, t := range tipos {
		allowed[t] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !enabled {
				return next(c)
			}
			tipo, _ := c.Get(ContextTipo).(string)
			if _, ok := allowed[tipo]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"erro": "permissão insuficiente"})
			}
			return next(c)
		}
	}
}
