// Package repository contains the data access layer. Each entity gets its own
// repository struct around a shared *sql.DB; operations that touch multiple
// rows (borrowing, returning, purchasing a wishlist entry) run inside a
// single transaction so a failure never leaves partial state behind.
//
// Sentinel errors let handlers map failure scenarios onto HTTP statuses
// without inspecting driver errors.
package repository

import (
	"errors"
	"strings"
)

// Not-found sentinels, one per referenced entity.
var (
	ErrMembroNotFound     = errors.New("membro não encontrado")
	ErrLivroNotFound      = errors.New("livro não encontrado")
	ErrEmprestimoNotFound = errors.New("empréstimo não encontrado")
	ErrAvaliacaoNotFound  = errors.New("avaliação não encontrada")
	ErrWishlistNotFound   = errors.New("item não encontrado na lista de desejos")
)

// State and uniqueness sentinels.
var (
	// ErrLivroIndisponivel is returned when a borrow loses the claim on the
	// book: it either does not exist as available or is already out.
	ErrLivroIndisponivel = errors.New("livro não disponível")

	// ErrLivroEmprestado blocks deleting a book that is currently on loan.
	ErrLivroEmprestado = errors.New("não é possível remover um livro emprestado")

	// ErrJaDevolvido is returned when returning a loan twice.
	ErrJaDevolvido = errors.New("livro já foi devolvido")

	// ErrMembroInativo blocks borrowing by a soft-deleted member.
	ErrMembroInativo = errors.New("membro inativo")

	// ErrEmailExists signals a duplicate member email.
	ErrEmailExists = errors.New("email já cadastrado")

	// ErrISBNExists signals a duplicate book ISBN.
	ErrISBNExists = errors.New("ISBN já cadastrado")

	// ErrAvaliacaoDuplicada signals a second review for the same
	// (member, book) pair.
	ErrAvaliacaoDuplicada = errors.New("membro já avaliou este livro")

	// ErrWishlistDuplicada signals a wishlist entry the member already has.
	ErrWishlistDuplicada = errors.New("item já está na lista de desejos")

	// ErrWishlistInvalida signals an entry referencing neither a catalog book
	// nor a desired title, which cannot be purchased.
	ErrWishlistInvalida = errors.New("item da lista de desejos inválido")
)

// isDuplicate reports whether err is a unique-constraint violation. MySQL
// surfaces these as error 1062; sqlite (the test database) mentions the
// UNIQUE constraint in the message.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique")
}
