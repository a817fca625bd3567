package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
	"github.com/lucasmrqs/biblioteca-familiar/internal/repository"
	"github.com/lucasmrqs/biblioteca-familiar/internal/utils"
)

// MembroHandler serves the family-member CRUD plus the per-member loan
// history.
type MembroHandler struct {
	Membros     *repository.MembroRepo
	Emprestimos *repository.EmprestimoRepo
	BcryptCost  int
}

func NewMembroHandler(m *repository.MembroRepo, e *repository.EmprestimoRepo, bcryptCost int) *MembroHandler {
	return &MembroHandler{Membros: m, Emprestimos: e, BcryptCost: bcryptCost}
}

type membroCreateRequest struct {
	Nome             string   `json:"nome"`
	Email            string   `json:"email"`
	Apelido          *string  `json:"apelido"`
	Idade            *int     `json:"idade"`
	Tipo             string   `json:"tipo"`
	AvatarCor        string   `json:"avatar_cor"`
	GenerosFavoritos []string `json:"generos_favoritos"`
	Senha            string   `json:"senha"`
}

// Create handles POST /api/membros.
func (h *MembroHandler) Create(c echo.Context) error {
	var body membroCreateRequest
	if err := c.Bind(&body); err != nil {
		return erro(c, http.StatusBadRequest, "corpo da requisição inválido")
	}
	body.Nome = strings.TrimSpace(body.Nome)
	body.Email = strings.TrimSpace(body.Email)
	if body.Nome == "" || body.Email == "" {
		return erro(c, http.StatusBadRequest, "nome e email são obrigatórios")
	}
	if !strings.Contains(body.Email, "@") {
		return erro(c, http.StatusBadRequest, "email inválido")
	}
	if body.Tipo != "" && !tipoMembroValido(body.Tipo) {
		return erro(c, http.StatusBadRequest, "tipo de membro inválido")
	}

	m := &model.Membro{
		Nome:             body.Nome,
		Email:            body.Email,
		Apelido:          body.Apelido,
		Idade:            body.Idade,
		Tipo:             body.Tipo,
		AvatarCor:        body.AvatarCor,
		GenerosFavoritos: body.GenerosFavoritos,
	}
	if body.Senha != "" {
		hash, err := utils.HashPassword(body.Senha, h.BcryptCost)
		if err != nil {
			return responderErro(c, err)
		}
		m.SenhaHash = &hash
	}
	if err := h.Membros.Create(c.Request().Context(), m); err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// List handles GET /api/membros; only active members are returned.
func (h *MembroHandler) List(c echo.Context) error {
	membros, err := h.Membros.ListAtivos(c.Request().Context())
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, membros)
}

// Get handles GET /api/membros/:id.
func (h *MembroHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	m, err := h.Membros.GetByID(c.Request().Context(), id)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Update handles PUT /api/membros/:id. Only the patch fields can change;
// email and points are not reachable from here.
func (h *MembroHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	var patch model.MembroPatch
	if err := c.Bind(&patch); err != nil {
		return erro(c, http.StatusBadRequest, "corpo da requisição inválido")
	}
	if patch.Tipo != nil && !tipoMembroValido(*patch.Tipo) {
		return erro(c, http.StatusBadRequest, "tipo de membro inválido")
	}
	m, err := h.Membros.Update(c.Request().Context(), id, patch)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /api/membros/:id as a soft delete: the member is
// deactivated and disappears from listings, but history stays intact.
func (h *MembroHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	if err := h.Membros.Desativar(c.Request().Context(), id); err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"mensagem": "Membro desativado com sucesso"})
}

// Historico handles GET /api/membros/:id/historico with the member's loans,
// newest first.
func (h *MembroHandler) Historico(c echo.Context) error {
	id, err := parseID(c, "id")
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

func tipoMembroValido(t string) bool {
	return t == model.TipoMembro || t == model.TipoAdministrador || t == model.TipoCrianca
}
