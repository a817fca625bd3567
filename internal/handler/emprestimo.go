package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
	"github.com/lucasmrqs/biblioteca-familiar/internal/queue"
	"github.com/lucasmrqs/biblioteca-familiar/internal/repository"
)

// EmprestimoHandler serves the loan lifecycle: borrow, list, return.
type EmprestimoHandler struct {
	Emprestimos *repository.EmprestimoRepo
	Membros     *repository.MembroRepo

	// MembroExternoPadrao is credited with external loans when the request
	// names no member.
	MembroExternoPadrao uint64

	// EventsEnabled turns on post-commit event publishing. Publishing happens
	// in a goroutine and is best effort; a broker outage never fails a loan.
	EventsEnabled bool
}

func NewEmprestimoHandler(e *repository.EmprestimoRepo, m *repository.MembroRepo, membroExternoPadrao uint64, eventsEnabled bool) *EmprestimoHandler {
	return &EmprestimoHandler{
		Emprestimos:         e,
		Membros:             m,
		MembroExternoPadrao: membroExternoPadrao,
		EventsEnabled:       eventsEnabled,
	}
}

type emprestimoCreateRequest struct {
	IDLivro               uint64     `json:"id_livro"`
	IDMembro              *uint64    `json:"id_membro"`
	TipoEmprestimo        string     `json:"tipo_emprestimo"`
	NomeAmigo             *string    `json:"nome_amigo"`
	ContatoAmigo          *string    `json:"contato_amigo"`
	DataPrevistaDevolucao *time.Time `json:"data_prevista_devolucao"`
	Observacoes           *string    `json:"observacoes"`
}

// Create handles POST /api/emprestimos. Internal loans require an existing
// active member; external loans fall back to the configured default member
// when none is named. Losing the race for the last copy yields 409.
func (h *EmprestimoHandler) Create(c echo.Context) error {
	var body emprestimoCreateRequest
	if err := c.Bind(&body); err != nil {
		return erro(c, http.StatusBadRequest, "corpo da requisição inválido")
	}
	if body.IDLivro == 0 {
		return erro(c, http.StatusBadRequest, "id_livro é obrigatório")
	}
	tipo := body.TipoEmprestimo
	if tipo == "" {
		tipo = model.TipoInterno
	}
	if tipo != model.TipoInterno && tipo != model.TipoExterno {
		return erro(c, http.StatusBadRequest, "tipo_emprestimo inválido")
	}

	var idMembro uint64
	switch {
	case body.IDMembro != nil:
		idMembro = *body.IDMembro
	case tipo == model.TipoExterno:
		idMembro = h.MembroExternoPadrao
	default:
		return erro(c, http.StatusBadRequest, "id_membro é obrigatório para empréstimos internos")
	}
	if tipo == model.TipoExterno && (body.NomeAmigo == nil || *body.NomeAmigo == "") {
		return erro(c, http.StatusBadRequest, "nome_amigo é obrigatório para empréstimos externos")
	}

	e := &model.Emprestimo{
		IDMembro:       idMembro,
		IDLivro:        body.IDLivro,
		TipoEmprestimo: tipo,
		NomeAmigo:      body.NomeAmigo,
		ContatoAmigo:   body.ContatoAmigo,
		Observacoes:    body.Observacoes,
	}
	if body.DataPrevistaDevolucao != nil {
		e.DataPrevistaDevolucao = *body.DataPrevistaDevolucao
	}

	criado, err := h.Emprestimos.Emprestar(c.Request().Context(), e)
	if err != nil {
		return responderErro(c, err)
	}
	h.publicar(queue.EventoEmprestado, criado, 0)
	return c.JSON(http.StatusCreated, criado)
}

// List handles GET /api/emprestimos with optional status and tipo filters.
// Overdue statuses are refreshed first so the listing never shows an active
// loan already past its due date.
func (h *EmprestimoHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := h.Emprestimos.AtualizarAtrasados(ctx); err != nil {
		return responderErro(c, err)
	}
	f := repository.FiltroEmprestimos{
		Status: c.QueryParam("status"),
		Tipo:   c.QueryParam("tipo"),
	}
	emprestimos, err := h.Emprestimos.List(ctx, f)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, emprestimos)
}

// Get handles GET /api/emprestimos/:id.
func (h *EmprestimoHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	e, err := h.Emprestimos.GetByID(c.Request().Context(), id)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// ListByMembro handles GET /api/emprestimos/membro/:id_membro, a member's
// full loan history including returned and overdue loans.
func (h *EmprestimoHandler) ListByMembro(c echo.Context) error {
	id, err := parseID(c, "id_membro")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	if _, err := h.Membros.GetByID(c.Request().Context(), id); err != nil {
		return responderErro(c, err)
	}
	emprestimos, err := h.Emprestimos.ListByMembro(c.Request().Context(), id)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, emprestimos)
}

// Devolver handles PUT /api/emprestimos/:id/devolver. The response carries
// the updated loan and the points credited to the member.
func (h *EmprestimoHandler) Devolver(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	e, pontos, err := h.Emprestimos.Devolver(c.Request().Context(), id)
	if err != nil {
		return responderErro(c, err)
	}
	h.publicar(queue.EventoDevolvido, e, pontos)
	return c.JSON(http.StatusOK, map[string]any{
		"mensagem":      "Livro devolvido com sucesso",
		"emprestimo":    e,
		"pontos_ganhos": pontos,
	})
}

func (h *EmprestimoHandler) publicar(evento string, e *model.Emprestimo, pontos int) {
	if !h.EventsEnabled || e == nil {
		return
	}
	ev := queue.EmprestimoEvent{
		TipoEvento:     evento,
		IDEmprestimo:   e.ID,
		IDLivro:        e.IDLivro,
		IDMembro:       e.IDMembro,
		TipoEmprestimo: e.TipoEmprestimo,
		PontosGanhos:   pontos,
		OcorridoEm:     time.Now().UTC().Format(time.RFC3339),
	}
	if e.TituloLivro != nil {
		ev.TituloLivro = *e.TituloLivro
	}
	if e.NomeMembro != nil {
		ev.NomeMembro = *e.NomeMembro
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue.PublishEmprestimoEvent(ctx, ev)
	}()
}
