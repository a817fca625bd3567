package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lucasmrqs/biblioteca-familiar/internal/repository"
)

// EstatisticasHandler serves the dashboard aggregate. Every request computes
// the numbers from the store; overdue statuses are refreshed first so the
// delay rate reflects reality.
type EstatisticasHandler struct {
	Estatisticas *repository.EstatisticasRepo
	Emprestimos  *repository.EmprestimoRepo
}

func NewEstatisticasHandler(e *repository.EstatisticasRepo, emp *repository.EmprestimoRepo) *EstatisticasHandler {
	return &EstatisticasHandler{Estatisticas: e, Emprestimos: emp}
}

// Get handles GET /api/estatisticas.
func (h *EstatisticasHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := h.Emprestimos.AtualizarAtrasados(ctx); err != nil {
		return responderErro(c, err)
	}
	est, err := h.Estatisticas.Coletar(ctx)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, est)
}
