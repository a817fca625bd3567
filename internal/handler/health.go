package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers liveness probes. The database ping turns a lost connection
// into a 503 so a supervisor can restart the service.
func Health(db *sql.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := db.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "indisponível"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
