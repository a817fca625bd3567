// Package handler contains the Echo HTTP handlers. Each entity gets a handler
// struct bundling the repositories it needs; request validation lives here,
// persistence rules live in the repositories. Error bodies use the shape
// {"erro": mensagem}; advisory responses use {"aviso": mensagem}.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lucasmrqs/biblioteca-familiar/internal/logger"
	"github.com/lucasmrqs/biblioteca-familiar/internal/repository"
)

func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("identificador inválido")
	}
	return id, nil
}

func parseQueryID(v string) (uint64, error) {
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("identificador inválido")
	}
	return id, nil
}

func erro(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"erro": msg})
}

// responderErro maps repository sentinels onto HTTP statuses. Anything
// unrecognized is logged and reported as a 500 without leaking driver
// details.
func responderErro(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrMembroNotFound),
		errors.Is(err, repository.ErrLivroNotFound),
		errors.Is(err, repository.ErrEmprestimoNotFound),
		errors.Is(err, repository.ErrAvaliacaoNotFound),
		errors.Is(err, repository.ErrWishlistNotFound):
		return erro(c, http.StatusNotFound, err.Error())

	case errors.Is(err, repository.ErrLivroIndisponivel),
		errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrISBNExists),
		errors.Is(err, repository.ErrAvaliacaoDuplicada),
		errors.Is(err, repository.ErrWishlistDuplicada):
		return erro(c, http.StatusConflict, err.Error())

	case errors.Is(err, repository.ErrMembroInativo),
		errors.Is(err, repository.ErrLivroEmprestado),
		errors.Is(err, repository.ErrJaDevolvido),
		errors.Is(err, repository.ErrWishlistInvalida):
		return erro(c, http.StatusBadRequest, err.Error())
	}

	logger.L().WithError(err).WithField("rota", c.Path()).Error("erro não tratado")
	return erro(c, http.StatusInternalServerError, "erro interno do servidor")
}
