package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
	"github.com/lucasmrqs/biblioteca-familiar/internal/repository"
)

// AvisoClassicoFamilia is returned (with HTTP 200 and no persisted review)
// when a family classic receives a low score without confirmation.
const AvisoClassicoFamilia = "Clássico da família! Tem certeza que quer dar menos de 4 estrelas?"

// AvaliacaoHandler serves book reviews and the top-rated ranking.
type AvaliacaoHandler struct {
	Avaliacoes *repository.AvaliacaoRepo
	Livros     *repository.LivroRepo
	Membros    *repository.MembroRepo
}

func NewAvaliacaoHandler(a *repository.AvaliacaoRepo, l *repository.LivroRepo, m *repository.MembroRepo) *AvaliacaoHandler {
	return &AvaliacaoHandler{Avaliacoes: a, Livros: l, Membros: m}
}

type avaliacaoCreateRequest struct {
	IDMembro           uint64   `json:"id_membro"`
	IDLivro            uint64   `json:"id_livro"`
	Nota               int      `json:"nota"`
	Comentario         *string  `json:"comentario"`
	RecomendaParaIdade *string  `json:"recomenda_para_idade"`
	Tags               []string `json:"tags"`
	LeituraCompleta    *bool    `json:"leitura_completa"`

	// Confirmado acknowledges the family-classic advisory; without it a low
	// score on a classic is not persisted.
	Confirmado bool `json:"confirmado"`
}

// Create handles POST /api/avaliacoes. A persisted review credits the member
// with points; a low score on a family classic first answers with an
// advisory the client must confirm.
func (h *AvaliacaoHandler) Create(c echo.Context) error {
	var body avaliacaoCreateRequest
	if err := c.Bind(&body); err != nil {
		return erro(c, http.StatusBadRequest, "corpo da requisição inválido")
	}
	if body.IDMembro == 0 || body.IDLivro == 0 {
		return erro(c, http.StatusBadRequest, "id_membro e id_livro são obrigatórios")
	}
	if !model.NotaValida(body.Nota) {
		return erro(c, http.StatusBadRequest, "nota deve estar entre 1 e 5")
	}

	ctx := c.Request().Context()
	if _, err := h.Membros.GetByID(ctx, body.IDMembro); err != nil {
		return responderErro(c, err)
	}
	livro, err := h.Livros.GetByID(ctx, body.IDLivro)
	if err != nil {
		return responderErro(c, err)
	}
	if livro.ClassicosFamilia && body.Nota < model.NotaMinimaClassico && !body.Confirmado {
		return c.JSON(http.StatusOK, map[string]string{"aviso": AvisoClassicoFamilia})
	}

	leituraCompleta := true
	if body.LeituraCompleta != nil {
		leituraCompleta = *body.LeituraCompleta
	}
	a := &model.Avaliacao{
		IDMembro:           body.IDMembro,
		IDLivro:            body.IDLivro,
		Nota:               body.Nota,
		Comentario:         body.Comentario,
		RecomendaParaIdade: body.RecomendaParaIdade,
		Tags:               body.Tags,
		LeituraCompleta:    leituraCompleta,
	}
	criada, err := h.Avaliacoes.Create(ctx, a)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusCreated, criada)
}

// Get handles GET /api/avaliacoes/:id.
func (h *AvaliacaoHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	a, err := h.Avaliacoes.GetByID(c.Request().Context(), id)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// ListByLivro handles GET /api/avaliacoes/livro/:id_livro.
func (h *AvaliacaoHandler) ListByLivro(c echo.Context) error {
	id, err := parseID(c, "id_livro")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	if _, err := h.Livros.GetByID(c.Request().Context(), id); err != nil {
		return responderErro(c, err)
	}
	avaliacoes, err := h.Avaliacoes.ListByLivro(c.Request().Context(), id)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, avaliacoes)
}

// ListByMembro handles GET /api/avaliacoes/membro/:id_membro.
func (h *AvaliacaoHandler) ListByMembro(c echo.Context) error {
	id, err := parseID(c, "id_membro")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	if _, err := h.Membros.GetByID(c.Request().Context(), id); err != nil {
		return responderErro(c, err)
	}
	avaliacoes, err := h.Avaliacoes.ListByMembro(c.Request().Context(), id)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, avaliacoes)
}

type avaliacaoUpdateRequest struct {
	model.AvaliacaoPatch
	Confirmado bool `json:"confirmado"`
}

// Update handles PUT /api/avaliacoes/:id. The score keeps its 1-5 bound and
// lowering a family classic below the threshold re-triggers the advisory;
// the member's points are untouched by edits.
func (h *AvaliacaoHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	var body avaliacaoUpdateRequest
	if err := c.Bind(&body); err != nil {
		return erro(c, http.StatusBadRequest, "corpo da requisição inválido")
	}
	if body.Nota != nil && !model.NotaValida(*body.Nota) {
		return erro(c, http.StatusBadRequest, "nota deve estar entre 1 e 5")
	}

	ctx := c.Request().Context()
	if body.Nota != nil && *body.Nota < model.NotaMinimaClassico && !body.Confirmado {
		atual, err := h.Avaliacoes.GetByID(ctx, id)
		if err != nil {
			return responderErro(c, err)
		}
		livro, err := h.Livros.GetByID(ctx, atual.IDLivro)
		if err != nil {
			return responderErro(c, err)
		}
		if livro.ClassicosFamilia {
			return c.JSON(http.StatusOK, map[string]string{"aviso": AvisoClassicoFamilia})
		}
	}

	a, err := h.Avaliacoes.Update(ctx, id, body.AvaliacaoPatch)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /api/avaliacoes/:id and takes the awarded points
// back, never leaving the member negative.
func (h *AvaliacaoHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return erro(c, http.StatusBadRequest, err.Error())
	}
	if err := h.Avaliacoes.Delete(c.Request().Context(), id); err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"mensagem": "Avaliação removida com sucesso"})
}

// Top handles GET /api/avaliacoes/top?limit=n (default 10).
func (h *AvaliacaoHandler) Top(c echo.Context) error {
	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return erro(c, http.StatusBadRequest, "limit inválido")
		}
		limit = n
	}
	top, err := h.Avaliacoes.TopRated(c.Request().Context(), limit)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(http.StatusOK, top)
}
