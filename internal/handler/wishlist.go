package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
	"github.com/lucasmrqs/biblioteca-familiar/internal/repository"
)

// WishlistHandler serves the desired-books list, the purchase flow and the
// family suggestion aggregation.
type WishlistHandler struct {
	Wishlist *repository.WishlistRepo
	Membros  *repository.MembroRepo
	Livros   *repository.LivroRepo
}

func NewWishlistHandler(w *repository.WishlistRepo, m *repository.MembroRepo, l *repository.LivroRepo) *WishlistHandler {
	return &WishlistHandler{Wishlist: w, Membros: m, Livros: l}
}

type wishlistAddRequest struct {
	IDMembro       uint64  `json:"id_membro"`
	IDLivro        *uint64 `json:"id_livro"`
	TituloDesejado *string `json:"titulo_desejado"`
	AutorDesejado  *string `json:"autor_desejado"`
	Prioridade     string  `json:"prioridade"`
	Notas          *string `json:"notas"`
}

// Add handles POST /api/wishlist. The entry references either a catalog book
// or a free-form desired title, never neither.
func (h *WishlistHandler) Add(c echo.Context) error {
	var body wishlistAddRequest
	if err := c.Bind(&body); err != nil {
		return erro(c, http.StatusBadRequest, "corpo da requisição inválido")
	}
	if body.IDMembro == 0 {
		return erro(c, http.StatusBadRequest, "id_membro é obrigatório")
	}
	if body.TituloDesejado != nil {
		t := strings.TrimSpace(*body.TituloDesejado)
		if t == "" {
			body.TituloDesejado = nil
		} else {
			body.TituloDesejado = &t
		}
	}
	if body.IDLivro == nil && body.TituloDesejado == nil {
		return erro(c, http.StatusBadRequest, "informe id_livro ou titulo_desejado")
	}
	if body.Prioridade != "" && !model.PrioridadeValida(body.Prioridade) {
		return erro(c, http.StatusBadRequest, "prioridade inválida")
	}

	ctx := c.Request().Context()
	if _, err := h.Membros.GetByID(ctx, body.IDMembro); err != nil {
		return responderErro(c, err)
	}
	if body.IDLivro != nil {
		if _, err := h.Livros.GetByID(ctx, *body.IDLivro); err != nil {
			return responderErro(c, err)
		}
	}

	w := &model.Wishlist{
		IDMembro:       body.IDMembro,
		IDLivro:        body.IDLivro,
		TituloDesejado: body.TituloDesejado,
		AutorDesejado:  body.AutorDesejado,
		Prioridade:     body.Prioridade,
		Notas:          body.Notas,
	}
	criado, err := h.Wishlist.Add(ctx, w)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusCreated, criado)
}

// Get handles GET /api/wishlist/:id.
func (h *WishlistHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	w, err := h.Wishlist.GetByID(c.Request().Context(), id)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, w)
}

// List handles GET /api/wishlist with optional id_membro and prioridade
// filters, higher priorities first.
func (h *WishlistHandler) List(c echo.Context) error {
	var f repository.FiltroWishlist
	if v := c.QueryParam("id_membro"); v != "" {
		id, err := parseQueryID(v)
		if err != nil {
			return erro(c, http.StatusBadRequest, "id_membro inválido")
		}
		f.IDMembro = &id
	}
	if p := c.QueryParam("prioridade"); p != "" {
		if !model.PrioridadeValida(p) {
			return erro(c, http.StatusBadRequest, "prioridade inválida")
		}
		f.Prioridade = &p
	}
	itens, err := h.Wishlist.List(c.Request().Context(), f)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, itens)
}

// Update handles PUT /api/wishlist/:id.
func (h *WishlistHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	var patch model.WishlistPatch
	if err := c.Bind(&patch); err != nil {
		return erro(c, http.StatusBadRequest, "corpo da requisição inválido")
	}
	if patch.Prioridade != nil && !model.PrioridadeValida(*patch.Prioridade) {
		return erro(c, http.StatusBadRequest, "prioridade inválida")
	}
	w, err := h.Wishlist.Update(c.Request().Context(), id, patch)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, w)
}

// Delete handles DELETE /api/wishlist/:id.
func (h *WishlistHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	if err := h.Wishlist.Delete(c.Request().Context(), id); err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"mensagem": "Item removido da lista de desejos"})
}

// Comprar handles POST /api/wishlist/:id/comprar. An uncataloged suggestion
// becomes a catalog book and the suggesting member earns points; an entry
// already pointing at a catalog book is simply resolved.
func (h *WishlistHandler) Comprar(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	var extra model.CompraLivro
	if err := c.Bind(&extra); err != nil {
		return erro(c, http.StatusBadRequest, "corpo da requisição inválido")
	}
	livro, criado, err := h.Wishlist.MarcarComprado(c.Request().Context(), id, extra)
	if err != nil {
		return responderErro(c, err)
	}
	mensagem := "Item marcado como comprado"
	if criado {
		mensagem = "Livro adicionado ao acervo"
	}
	return c.JSON(http.StatusOK, map[string]any{
		"mensagem": mensagem,
		"livro":    livro,
	})
}

// Sugestoes handles GET /api/wishlist/sugestoes: uncataloged titles wanted
// by more than one member, most wanted first.
func (h *WishlistHandler) Sugestoes(c echo.Context) error {
	sugestoes, err := h.Wishlist.Sugestoes(c.Request().Context())
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, sugestoes)
}
