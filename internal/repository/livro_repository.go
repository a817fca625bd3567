package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
)

// livroCols selects every column plus the review aggregate the serialized
// book carries (mean score and review count).
const livroCols = `l.id_livro, l.isbn, l.titulo, l.autor, l.editora, l.ano_publicacao,
	l.genero, l.subgenero, l.idioma, l.num_paginas, l.idade_recomendada, l.localizacao,
	l.estado_conservacao, l.disponivel, l.capa_url, l.sinopse, l.data_aquisicao,
	l.origem, l.valor_estimado, l.classicos_familia,
	COALESCE((SELECT AVG(a.nota) FROM avaliacoes a WHERE a.id_livro = l.id_livro), 0),
	(SELECT COUNT(*) FROM avaliacoes a WHERE a.id_livro = l.id_livro)`

// LivroRepo encapsulates all database queries related to the book catalog.
type LivroRepo struct {
	db *sql.DB
}

func NewLivroRepo(db *sql.DB) *LivroRepo {
	return &LivroRepo{db: db}
}

// FiltroLivros narrows List. Nil/false fields are ignored.
type FiltroLivros struct {
	Genero           *string
	Disponivel       bool
	IdadeRecomendada *string
	Classicos        bool
}

// Create catalogs a new book. Defaults mirror the registration form: language
// Português, recommendation "Todas", condition "Bom", available. A duplicate
// ISBN yields ErrISBNExists.
func (r *LivroRepo) Create(ctx context.Context, l *model.Livro) error {
	if l.Idioma == "" {
		l.Idioma = model.IdiomaPadrao
	}
	if l.IdadeRecomendada == "" {
		l.IdadeRecomendada = model.IdadeRecomendadaPadrao
	}
	if l.EstadoConservacao == "" {
		l.EstadoConservacao = model.EstadoConservacaoPadrao
	}
	if l.DataAquisicao.IsZero() {
		l.DataAquisicao = time.Now().UTC()
	}
	const q = `INSERT INTO livros
	           (isbn, titulo, autor, editora, ano_publicacao, genero, subgenero, idioma,
	            num_paginas, idade_recomendada, localizacao, estado_conservacao, disponivel,
	            capa_url, sinopse, data_aquisicao, origem, valor_estimado, classicos_familia)
	           VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		l.ISBN, l.Titulo, l.Autor, l.Editora, l.AnoPublicacao, l.Genero, l.Subgenero,
		l.Idioma, l.NumPaginas, l.IdadeRecomendada, l.Localizacao, l.EstadoConservacao,
		true, l.CapaURL, l.Sinopse, l.DataAquisicao, l.Origem, l.ValorEstimado,
		l.ClassicosFamilia)
	if err != nil {
		if isDuplicate(err) {
			return ErrISBNExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	l.Disponivel = true
	l.Derivar()
	return nil
}

// GetByID fetches a book with its review aggregate.
func (r *LivroRepo) GetByID(ctx context.Context, id uint64) (*model.Livro, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+livroCols+" FROM livros l WHERE l.id_livro = ?", id)
	return scanLivro(row)
}

// List returns the catalog, optionally filtered.
func (r *LivroRepo) List(ctx context.Context, f FiltroLivros) ([]*model.Livro, error) {
	q := "SELECT " + livroCols + " FROM livros l"
	where := []string{}
	args := []any{}
	if f.Genero != nil {
		where, args = append(where, "l.genero = ?"), append(args, *f.Genero)
	}
	if f.Disponivel {
		where, args = append(where, "l.disponivel = ?"), append(args, true)
	}
	if f.IdadeRecomendada != nil {
		where, args = append(where, "l.idade_recomendada = ?"), append(args, *f.IdadeRecomendada)
	}
	if f.Classicos {
		where, args = append(where, "l.classicos_familia = ?"), append(args, true)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY l.id_livro"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Livro{}
	for rows.Next() {
		l, err := scanLivro(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of the patch and returns the result.
func (r *LivroRepo) Update(ctx context.Context, id uint64, p model.LivroPatch) (*model.Livro, error) {
	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if p.Titulo != nil {
		add("titulo", *p.Titulo)
	}
	if p.Autor != nil {
		add("autor", *p.Autor)
	}
	if p.Editora != nil {
		add("editora", *p.Editora)
	}
	if p.AnoPublicacao != nil {
		add("ano_publicacao", *p.AnoPublicacao)
	}
	if p.Genero != nil {
		add("genero", *p.Genero)
	}
	if p.Subgenero != nil {
		add("subgenero", *p.Subgenero)
	}
	if p.Idioma != nil {
		add("idioma", *p.Idioma)
	}
	if p.NumPaginas != nil {
		add("num_paginas", *p.NumPaginas)
	}
	if p.IdadeRecomendada != nil {
		add("idade_recomendada", *p.IdadeRecomendada)
	}
	if p.Localizacao != nil {
		add("localizacao", *p.Localizacao)
	}
	if p.EstadoConservacao != nil {
		add("estado_conservacao", *p.EstadoConservacao)
	}
	if p.CapaURL != nil {
		add("capa_url", *p.CapaURL)
	}
	if p.Sinopse != nil {
		add("sinopse", *p.Sinopse)
	}
	if p.Origem != nil {
		add("origem", *p.Origem)
	}
	if p.ValorEstimado != nil {
		add("valor_estimado", *p.ValorEstimado)
	}
	if p.ClassicosFamilia != nil {
		add("classicos_familia", *p.ClassicosFamilia)
	}
	if len(set) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			"UPDATE livros SET "+strings.Join(set, ", ")+" WHERE id_livro = ?", args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a book from the catalog. A book currently on loan cannot be
// removed; the check and the delete share a transaction so a concurrent
// borrow cannot slip between them.
func (r *LivroRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var disponivel bool
	if err = tx.QueryRowContext(ctx,
		"SELECT disponivel FROM livros WHERE id_livro = ?", id).Scan(&disponivel); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrLivroNotFound
		}
		return err
	}
	if !disponivel {
		err = ErrLivroEmprestado
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM livros WHERE id_livro = ?", id)
	return err
}

func scanLivro(row rowScanner) (*model.Livro, error) {
	var l model.Livro
	err := row.Scan(&l.ID, &l.ISBN, &l.Titulo, &l.Autor, &l.Editora, &l.AnoPublicacao,
		&l.Genero, &l.Subgenero, &l.Idioma, &l.NumPaginas, &l.IdadeRecomendada,
		&l.Localizacao, &l.EstadoConservacao, &l.Disponivel, &l.CapaURL, &l.Sinopse,
		&l.DataAquisicao, &l.Origem, &l.ValorEstimado, &l.ClassicosFamilia,
		&l.NotaMedia, &l.TotalAvaliacoes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLivroNotFound
		}
		return nil, err
	}
	l.Derivar()
	return &l, nil
}
