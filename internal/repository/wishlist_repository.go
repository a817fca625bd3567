package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
)

const wishlistCols = `w.id_wishlist, w.id_membro, m.nome, w.id_livro,
	COALESCE(l.titulo, w.titulo_desejado), COALESCE(l.autor, w.autor_desejado),
	w.titulo_desejado, w.autor_desejado, w.prioridade, w.data_adicao, w.notas`

const wishlistFrom = ` FROM wishlist w
	LEFT JOIN membros_familia m ON m.id_membro = w.id_membro
	LEFT JOIN livros l ON l.id_livro = w.id_livro`

// OrigemCompraWishlist is stamped on books created by purchasing a wishlist
// suggestion.
const OrigemCompraWishlist = "Comprado da lista de desejos"

// WishlistRepo encapsulates desired-book entries. Purchasing an entry can
// create a catalog book and award points, so that path is transactional.
type WishlistRepo struct {
	db *sql.DB
}

func NewWishlistRepo(db *sql.DB) *WishlistRepo {
	return &WishlistRepo{db: db}
}

// FiltroWishlist narrows List. Nil fields are ignored.
type FiltroWishlist struct {
	IDMembro   *uint64
	Prioridade *string
}

// Add inserts a wishlist entry. The same member cannot want the same catalog
// book, or the same desired title, twice; duplicates yield
// ErrWishlistDuplicada.
func (r *WishlistRepo) Add(ctx context.Context, w *model.Wishlist) (*model.Wishlist, error) {
	var dup int
	var err error
	if w.IDLivro != nil {
		err = r.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM wishlist WHERE id_membro = ? AND id_livro = ?",
			w.IDMembro, *w.IDLivro).Scan(&dup)
	} else {
		err = r.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM wishlist WHERE id_membro = ? AND titulo_desejado = ?",
			w.IDMembro, w.TituloDesejado).Scan(&dup)
	}
	if err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, ErrWishlistDuplicada
	}

	if w.Prioridade == "" {
		w.Prioridade = model.PrioridadeMedia
	}
	if w.DataAdicao.IsZero() {
		w.DataAdicao = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO wishlist (id_membro, id_livro, titulo_desejado, autor_desejado, prioridade, data_adicao, notas)
		 VALUES (?,?,?,?,?,?,?)`,
		w.IDMembro, w.IDLivro, w.TituloDesejado, w.AutorDesejado, w.Prioridade, w.DataAdicao, w.Notas)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches an entry; catalog title/author win over the desired pair.
func (r *WishlistRepo) GetByID(ctx context.Context, id uint64) (*model.Wishlist, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+wishlistCols+wishlistFrom+" WHERE w.id_wishlist = ?", id)
	return scanWishlist(row)
}

// List returns entries ordered by priority rank (alta first) and then by
// newest addition.
func (r *WishlistRepo) List(ctx context.Context, f FiltroWishlist) ([]*model.Wishlist, error) {
	q := "SELECT " + wishlistCols + wishlistFrom
	where := []string{}
	args := []any{}
	if f.IDMembro != nil {
		where, args = append(where, "w.id_membro = ?"), append(args, *f.IDMembro)
	}
	if f.Prioridade != nil {
		where, args = append(where, "w.prioridade = ?"), append(args, *f.Prioridade)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += ` ORDER BY CASE w.prioridade
	         WHEN 'alta' THEN 1
	         WHEN 'média' THEN 2
	         ELSE 3
	       END, w.data_adicao DESC, w.id_wishlist DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Wishlist{}
	for rows.Next() {
		w, err := scanWishlist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of the patch.
func (r *WishlistRepo) Update(ctx context.Context, id uint64, p model.WishlistPatch) (*model.Wishlist, error) {
	set := []string{}
	args := []any{}
	if p.Prioridade != nil {
		set, args = append(set, "prioridade = ?"), append(args, *p.Prioridade)
	}
	if p.Notas != nil {
		set, args = append(set, "notas = ?"), append(args, *p.Notas)
	}
	if p.TituloDesejado != nil {
		set, args = append(set, "titulo_desejado = ?"), append(args, *p.TituloDesejado)
	}
	if p.AutorDesejado != nil {
		set, args = append(set, "autor_desejado = ?"), append(args, *p.AutorDesejado)
	}
	if len(set) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			"UPDATE wishlist SET "+strings.Join(set, ", ")+" WHERE id_wishlist = ?", args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes an entry outright.
func (r *WishlistRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM wishlist WHERE id_wishlist = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWishlistNotFound
	}
	return nil
}

// MarcarComprado resolves a purchase. For an uncataloged suggestion it
// creates the book (title/author from the entry, remaining fields from the
// optional payload), credits the suggesting member 30 points and removes the
// entry, all in one transaction; created reports that a book was added to the
// catalog. For an entry already pointing at a catalog book it just removes
// the entry and returns that book.
func (r *WishlistRepo) MarcarComprado(ctx context.Context, id uint64, extra model.CompraLivro) (livro *model.Livro, created bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		idMembro uint64
		idLivro  *uint64
		titulo   *string
		autor    *string
	)
	err = tx.QueryRowContext(ctx,
		"SELECT id_membro, id_livro, titulo_desejado, autor_desejado FROM wishlist WHERE id_wishlist = ?", id).
		Scan(&idMembro, &idLivro, &titulo, &autor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, ErrWishlistNotFound
		}
		return nil, false, err
	}

	var livroID uint64
	switch {
	case idLivro == nil && titulo != nil:
		nomeAutor := "Autor desconhecido"
		if autor != nil {
			nomeAutor = *autor
		}
		origem := OrigemCompraWishlist
		res, insErr := tx.ExecContext(ctx,
			`INSERT INTO livros
			 (isbn, titulo, autor, editora, ano_publicacao, genero, subgenero, idioma,
			  num_paginas, idade_recomendada, localizacao, estado_conservacao, disponivel,
			  capa_url, sinopse, data_aquisicao, origem, valor_estimado, classicos_familia)
			 VALUES (?,?,?,?,?,?,NULL,?,?,?,?,?,?,NULL,NULL,?,?,?,?)`,
			extra.ISBN, *titulo, nomeAutor, extra.Editora, extra.AnoPublicacao, extra.Genero,
			model.IdiomaPadrao, extra.NumPaginas, model.IdadeRecomendadaPadrao, extra.Localizacao,
			model.EstadoConservacaoPadrao, true, time.Now().UTC(), origem, extra.ValorEstimado, false)
		if insErr != nil {
			if isDuplicate(insErr) {
				return nil, false, ErrISBNExists
			}
			return nil, false, insErr
		}
		newID, idErr := res.LastInsertId()
		if idErr != nil {
			return nil, false, idErr
		}
		livroID = uint64(newID)
		created = true

		if _, err = tx.ExecContext(ctx,
			"UPDATE membros_familia SET pontos_leitura = pontos_leitura + ? WHERE id_membro = ?",
			model.PontosSugestaoAceita, idMembro); err != nil {
			return nil, false, err
		}

	case idLivro != nil:
		livroID = *idLivro

	default:
		return nil, false, ErrWishlistInvalida
	}

	if _, err = tx.ExecContext(ctx,
		"DELETE FROM wishlist WHERE id_wishlist = ?", id); err != nil {
		return nil, false, err
	}
	if err = tx.Commit(); err != nil {
		return nil, false, err
	}

	row := r.db.QueryRowContext(ctx,
		"SELECT "+livroCols+" FROM livros l WHERE l.id_livro = ?", livroID)
	livro, err = scanLivro(row)
	if err != nil {
		if errors.Is(err, ErrLivroNotFound) {
			// The referenced book was deleted from the catalog; the entry is
			// gone either way.
			return nil, created, nil
		}
		return nil, created, err
	}
	return livro, created, nil
}

// Sugestoes groups uncataloged wishlist entries by desired title/author and
// keeps the ones more than one distinct member asked for, most wanted first.
func (r *WishlistRepo) Sugestoes(ctx context.Context) ([]*model.Sugestao, error) {
	const q = `SELECT w.titulo_desejado, w.autor_desejado,
	                  COUNT(DISTINCT w.id_membro), GROUP_CONCAT(m.nome)
	           FROM wishlist w
	           JOIN membros_familia m ON m.id_membro = w.id_membro
	           WHERE w.titulo_desejado IS NOT NULL
	           GROUP BY w.titulo_desejado, w.autor_desejado
	           HAVING COUNT(DISTINCT w.id_membro) > 1
	           ORDER BY COUNT(DISTINCT w.id_membro) DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Sugestao{}
	for rows.Next() {
		s := new(model.Sugestao)
		var nomes *string
		if err := rows.Scan(&s.Titulo, &s.Autor, &s.TotalInteressados, &nomes); err != nil {
			return nil, err
		}
		s.Membros = []string{}
		if nomes != nil {
			s.Membros = model.SplitCSV(*nomes)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanWishlist(row rowScanner) (*model.Wishlist, error) {
	var w model.Wishlist
	err := row.Scan(&w.ID, &w.IDMembro, &w.NomeMembro, &w.IDLivro,
		&w.TituloLivro, &w.AutorLivro, &w.TituloDesejado, &w.AutorDesejado,
		&w.Prioridade, &w.DataAdicao, &w.Notas)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWishlistNotFound
		}
		return nil, err
	}
	return &w, nil
}
