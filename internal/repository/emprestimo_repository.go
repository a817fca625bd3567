package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
)

const emprestimoCols = `e.id_emprestimo, e.id_membro, e.id_livro, m.nome, l.titulo,
	e.tipo_emprestimo, e.nome_amigo, e.contato_amigo, e.data_emprestimo,
	e.data_prevista_devolucao, e.data_devolucao, e.status, e.observacoes`

const emprestimoFrom = ` FROM emprestimos e
	LEFT JOIN membros_familia m ON m.id_membro = e.id_membro
	LEFT JOIN livros l ON l.id_livro = e.id_livro`

// EmprestimoRepo encapsulates the loan lifecycle. Borrowing and returning are
// multi-row writes and always run inside one transaction.
type EmprestimoRepo struct {
	db *sql.DB
}

func NewEmprestimoRepo(db *sql.DB) *EmprestimoRepo {
	return &EmprestimoRepo{db: db}
}

// FiltroEmprestimos narrows List. Empty or "todos" means no filter.
type FiltroEmprestimos struct {
	Status string
	Tipo   string
}

// Emprestar creates a loan and flips the book to unavailable in one
// transaction. The book is claimed with a conditional update (set unavailable
// where currently available), so two concurrent borrows cannot both succeed:
// the loser sees zero affected rows and gets ErrLivroIndisponivel.
//
// For internal loans the member must exist and be active. External loans keep
// whatever member id the caller resolved (the configured default when the
// request named none).
func (r *EmprestimoRepo) Emprestar(ctx context.Context, e *model.Emprestimo) (*model.Emprestimo, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var disponivel bool
	if err := tx.QueryRowContext(ctx,
		"SELECT disponivel FROM livros WHERE id_livro = ?", e.IDLivro).Scan(&disponivel); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLivroNotFound
		}
		return nil, err
	}
	if !disponivel {
		return nil, ErrLivroIndisponivel
	}

	if e.TipoEmprestimo == model.TipoInterno {
		var ativo bool
		if err := tx.QueryRowContext(ctx,
			"SELECT ativo FROM membros_familia WHERE id_membro = ?", e.IDMembro).Scan(&ativo); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrMembroNotFound
			}
			return nil, err
		}
		if !ativo {
			return nil, ErrMembroInativo
		}
	}

	// Atomic claim: whoever flips the flag owns the loan.
	res, err := tx.ExecContext(ctx,
		"UPDATE livros SET disponivel = ? WHERE id_livro = ? AND disponivel = ?",
		false, e.IDLivro, true)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrLivroIndisponivel
	}

	if e.DataEmprestimo.IsZero() {
		e.DataEmprestimo = time.Now().UTC()
	}
	if e.DataPrevistaDevolucao.IsZero() {
		e.DataPrevistaDevolucao = model.DataPrevistaPadrao(e.TipoEmprestimo, e.DataEmprestimo)
	}
	ins, err := tx.ExecContext(ctx,
		`INSERT INTO emprestimos
		 (id_membro, id_livro, data_emprestimo, data_prevista_devolucao, tipo_emprestimo,
		  nome_amigo, contato_amigo, status, observacoes)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		e.IDMembro, e.IDLivro, e.DataEmprestimo, e.DataPrevistaDevolucao,
		e.TipoEmprestimo, e.NomeAmigo, e.ContatoAmigo, model.StatusAtivo, e.Observacoes)
	if err != nil {
		return nil, err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Devolver marks a loan returned, frees the book, and credits reading points
// to household members, all in one transaction. It returns the updated loan
// together with the points awarded (always 0 for external loans).
//
// The base award is min(100, pages/10) when the page count is known, else 10;
// the 20-point punctuality bonus applies only when the due date has not
// passed at return time.
func (r *EmprestimoRepo) Devolver(ctx context.Context, id uint64) (*model.Emprestimo, int, error) {
	agora := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		idMembro, idLivro uint64
		tipo, status      string
		prevista          time.Time
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id_membro, id_livro, tipo_emprestimo, status, data_prevista_devolucao
		 FROM emprestimos WHERE id_emprestimo = ?`, id).
		Scan(&idMembro, &idLivro, &tipo, &status, &prevista)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrEmprestimoNotFound
		}
		return nil, 0, err
	}
	if status == model.StatusDevolvido {
		return nil, 0, ErrJaDevolvido
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE emprestimos SET status = ?, data_devolucao = ? WHERE id_emprestimo = ?",
		model.StatusDevolvido, agora, id); err != nil {
		return nil, 0, err
	}
	if _, err = tx.ExecContext(ctx,
		"UPDATE livros SET disponivel = ? WHERE id_livro = ?", true, idLivro); err != nil {
		return nil, 0, err
	}

	pontos := 0
	if tipo == model.TipoInterno {
		var paginas *int
		if err = tx.QueryRowContext(ctx,
			"SELECT num_paginas FROM livros WHERE id_livro = ?", idLivro).Scan(&paginas); err != nil {
			return nil, 0, err
		}
		atraso := model.DiasAtraso(model.StatusAtivo, prevista, agora)
		pontos = model.PontosDevolucao(paginas, atraso)
		if pontos > 0 {
			if _, err = tx.ExecContext(ctx,
				"UPDATE membros_familia SET pontos_leitura = pontos_leitura + ? WHERE id_membro = ?",
				pontos, idMembro); err != nil {
				return nil, 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, 0, err
	}
	emp, err := r.GetByID(ctx, id)
	return emp, pontos, err
}

// GetByID fetches a loan with the member name and book title joined in.
func (r *EmprestimoRepo) GetByID(ctx context.Context, id uint64) (*model.Emprestimo, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+emprestimoCols+emprestimoFrom+" WHERE e.id_emprestimo = ?", id)
	return scanEmprestimo(row)
}

// AtualizarAtrasados flips every active loan whose due date has passed to
// "atrasado". It is idempotent; the listing handler calls it before reading
// so overdue status is always current. Returns the number of flipped loans.
func (r *EmprestimoRepo) AtualizarAtrasados(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE emprestimos SET status = ? WHERE status = ? AND data_prevista_devolucao < ?",
		model.StatusAtrasado, model.StatusAtivo, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// List returns loans newest first, optionally filtered by status and kind.
func (r *EmprestimoRepo) List(ctx context.Context, f FiltroEmprestimos) ([]*model.Emprestimo, error) {
	q := "SELECT " + emprestimoCols + emprestimoFrom
	where := []string{}
	args := []any{}
	if f.Status != "" && f.Status != "todos" {
		where, args = append(where, "e.status = ?"), append(args, f.Status)
	}
	if f.Tipo != "" && f.Tipo != "todos" {
		where, args = append(where, "e.tipo_emprestimo = ?"), append(args, f.Tipo)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY e.data_emprestimo DESC, e.id_emprestimo DESC"
	return r.queryEmprestimos(ctx, q, args...)
}

// ListByMembro returns every loan attributed to a member, newest first.
func (r *EmprestimoRepo) ListByMembro(ctx context.Context, idMembro uint64) ([]*model.Emprestimo, error) {
	q := "SELECT " + emprestimoCols + emprestimoFrom +
		" WHERE e.id_membro = ? ORDER BY e.data_emprestimo DESC, e.id_emprestimo DESC"
	return r.queryEmprestimos(ctx, q, idMembro)
}

func (r *EmprestimoRepo) queryEmprestimos(ctx context.Context, q string, args ...any) ([]*model.Emprestimo, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Emprestimo{}
	for rows.Next() {
		e, err := scanEmprestimo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEmprestimo(row rowScanner) (*model.Emprestimo, error) {
	var e model.Emprestimo
	err := row.Scan(&e.ID, &e.IDMembro, &e.IDLivro, &e.NomeMembro, &e.TituloLivro,
		&e.TipoEmprestimo, &e.NomeAmigo, &e.ContatoAmigo, &e.DataEmprestimo,
		&e.DataPrevistaDevolucao, &e.DataDevolucao, &e.Status, &e.Observacoes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmprestimoNotFound
		}
		return nil, err
	}
	e.Derivar(time.Now().UTC())
	return &e, nil
}
