package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
)

const avaliacaoCols = `a.id_avaliacao, a.id_membro, a.id_livro, m.nome, l.titulo,
	a.nota, a.comentario, a.recomenda_para_idade, a.tags, a.data_avaliacao, a.leitura_completa`

const avaliacaoFrom = ` FROM avaliacoes a
	LEFT JOIN membros_familia m ON m.id_membro = a.id_membro
	LEFT JOIN livros l ON l.id_livro = a.id_livro`

// AvaliacaoRepo encapsulates review persistence. Creating and deleting a
// review also moves the member's points, inside the same transaction.
type AvaliacaoRepo struct {
	db *sql.DB
}

func NewAvaliacaoRepo(db *sql.DB) *AvaliacaoRepo {
	return &AvaliacaoRepo{db: db}
}

// Create inserts a review and credits the member 15 points. The unique index
// on (id_membro, id_livro) enforces one review per member per book; a
// violation comes back as ErrAvaliacaoDuplicada with nothing written.
func (r *AvaliacaoRepo) Create(ctx context.Context, a *model.Avaliacao) (*model.Avaliacao, error) {
	if a.DataAvaliacao.IsZero() {
		a.DataAvaliacao = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO avaliacoes
		 (id_membro, id_livro, nota, comentario, recomenda_para_idade, tags, data_avaliacao, leitura_completa)
		 VALUES (?,?,?,?,?,?,?,?)`,
		a.IDMembro, a.IDLivro, a.Nota, a.Comentario, a.RecomendaParaIdade,
		model.JoinCSV(a.Tags), a.DataAvaliacao, a.LeituraCompleta)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrAvaliacaoDuplicada
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE membros_familia SET pontos_leitura = pontos_leitura + ? WHERE id_membro = ?",
		model.PontosAvaliacao, a.IDMembro); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a review with member name and book title joined in.
func (r *AvaliacaoRepo) GetByID(ctx context.Context, id uint64) (*model.Avaliacao, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+avaliacaoCols+avaliacaoFrom+" WHERE a.id_avaliacao = ?", id)
	return scanAvaliacao(row)
}

// ListByLivro returns a book's reviews, newest first.
func (r *AvaliacaoRepo) ListByLivro(ctx context.Context, idLivro uint64) ([]*model.Avaliacao, error) {
	q := "SELECT " + avaliacaoCols + avaliacaoFrom +
		" WHERE a.id_livro = ? ORDER BY a.data_avaliacao DESC, a.id_avaliacao DESC"
	return r.queryAvaliacoes(ctx, q, idLivro)
}

// ListByMembro returns a member's reviews, newest first.
func (r *AvaliacaoRepo) ListByMembro(ctx context.Context, idMembro uint64) ([]*model.Avaliacao, error) {
	q := "SELECT " + avaliacaoCols + avaliacaoFrom +
		" WHERE a.id_membro = ? ORDER BY a.data_avaliacao DESC, a.id_avaliacao DESC"
	return r.queryAvaliacoes(ctx, q, idMembro)
}

// Update applies the non-nil fields of the patch. Score validation and the
// family-classic advisory happen in the handler before this runs.
func (r *AvaliacaoRepo) Update(ctx context.Context, id uint64, p model.AvaliacaoPatch) (*model.Avaliacao, error) {
	set := []string{}
	args := []any{}
	if p.Nota != nil {
		set, args = append(set, "nota = ?"), append(args, *p.Nota)
	}
	if p.Comentario != nil {
		set, args = append(set, "comentario = ?"), append(args, *p.Comentario)
	}
	if p.RecomendaParaIdade != nil {
		set, args = append(set, "recomenda_para_idade = ?"), append(args, *p.RecomendaParaIdade)
	}
	if p.Tags != nil {
		set, args = append(set, "tags = ?"), append(args, model.JoinCSV(p.Tags))
	}
	if p.LeituraCompleta != nil {
		set, args = append(set, "leitura_completa = ?"), append(args, *p.LeituraCompleta)
	}
	if len(set) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			"UPDATE avaliacoes SET "+strings.Join(set, ", ")+" WHERE id_avaliacao = ?", args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a review and takes back its 15 points, never pushing the
// member below zero. Both writes share a transaction.
func (r *AvaliacaoRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var idMembro uint64
	if err = tx.QueryRowContext(ctx,
		"SELECT id_membro FROM avaliacoes WHERE id_avaliacao = ?", id).Scan(&idMembro); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAvaliacaoNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM avaliacoes WHERE id_avaliacao = ?", id); err != nil {
		return err
	}

	// GREATEST/MAX spell differently across dialects; floor in Go instead.
	var pontos int
	if err = tx.QueryRowContext(ctx,
		"SELECT pontos_leitura FROM membros_familia WHERE id_membro = ?", idMembro).Scan(&pontos); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Member already hard-removed somehow; the review is gone, done.
			return tx.Commit()
		}
		return err
	}
	pontos -= model.PontosAvaliacao
	if pontos < 0 {
		pontos = 0
	}
	if _, err = tx.ExecContext(ctx,
		"UPDATE membros_familia SET pontos_leitura = ? WHERE id_membro = ?", pontos, idMembro); err != nil {
		return err
	}
	return tx.Commit()
}

// TopRated returns up to limit books that have at least one review, ordered
// by mean score descending.
func (r *AvaliacaoRepo) TopRated(ctx context.Context, limit int) ([]*model.LivroTop, error) {
	const q = `SELECT l.id_livro, l.titulo, l.autor, AVG(a.nota), COUNT(a.id_avaliacao)
	           FROM livros l
	           JOIN avaliacoes a ON a.id_livro = l.id_livro
	           GROUP BY l.id_livro, l.titulo, l.autor
	           HAVING COUNT(a.id_avaliacao) >= 1
	           ORDER BY AVG(a.nota) DESC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.LivroTop{}
	for rows.Next() {
		t := new(model.LivroTop)
		if err := rows.Scan(&t.IDLivro, &t.Titulo, &t.Autor, &t.NotaMedia, &t.TotalAvaliacoes); err != nil {
			return nil, err
		}
		t.NotaMedia = model.ArredondaNota(t.NotaMedia)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *AvaliacaoRepo) queryAvaliacoes(ctx context.Context, q string, args ...any) ([]*model.Avaliacao, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Avaliacao{}
	for rows.Next() {
		a, err := scanAvaliacao(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAvaliacao(row rowScanner) (*model.Avaliacao, error) {
	var a model.Avaliacao
	var tags string
	err := row.Scan(&a.ID, &a.IDMembro, &a.IDLivro, &a.NomeMembro, &a.TituloLivro,
		&a.Nota, &a.Comentario, &a.RecomendaParaIdade, &tags, &a.DataAvaliacao, &a.LeituraCompleta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAvaliacaoNotFound
		}
		return nil, err
	}
	a.Tags = model.SplitCSV(tags)
	a.Derivar()
	return &a, nil
}
