package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
	"github.com/lucasmrqs/biblioteca-familiar/internal/repository"
)

// LivroHandler serves the catalog CRUD.
type LivroHandler struct {
	Livros *repository.LivroRepo
}

func NewLivroHandler(l *repository.LivroRepo) *LivroHandler {
	return &LivroHandler{Livros: l}
}

// Create handles POST /api/livros.
func (h *LivroHandler) Create(c echo.Context) error {
	var l model.Livro
	if err := c.Bind(&l); err != nil {
		return erro(c, http.StatusBadRequest, "corpo da requisição inválido")
	}
	l.Titulo = strings.TrimSpace(l.Titulo)
	l.Autor = strings.TrimSpace(l.Autor)
	if l.Titulo == "" || l.Autor == "" {
		return erro(c, http.StatusBadRequest, "título e autor são obrigatórios")
	}
	if err := h.Livros.Create(c.Request().Context(), &l); err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusCreated, &l)
}

// List handles GET /api/livros with the optional filters genero, disponivel,
// idade_recomendada and classicos.
func (h *LivroHandler) List(c echo.Context) error {
	var f repository.FiltroLivros
	if g := c.QueryParam("genero"); g != "" {
		f.Genero = &g
	}
	if i := c.QueryParam("idade_recomendada"); i != "" {
		f.IdadeRecomendada = &i
	}
	f.Disponivel = c.QueryParam("disponivel") == "true"
	f.Classicos = c.QueryParam("classicos") == "true"

	livros, err := h.Livros.List(c.Request().Context(), f)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, livros)
}

// Get handles GET /api/livros/:id.
func (h *LivroHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	l, err := h.Livros.GetByID(c.Request().Context(), id)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

// Update handles PUT /api/livros/:id. Availability is absent from the patch:
// it only moves through the loan lifecycle.
func (h *LivroHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	var patch model.LivroPatch
	if err := c.Bind(&patch); err != nil {
		return erro(c, http.StatusBadRequest, "corpo da requisição inválido")
	}
	l, err := h.Livros.Update(c.Request().Context(), id, patch)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

// Delete handles DELETE /api/livros/:id. A book with an open loan cannot be
// removed.
func (h *LivroHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	if err := h.Livros.Delete(c.Request().Context(), id); err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"mensagem": "Livro removido com sucesso"})
}
