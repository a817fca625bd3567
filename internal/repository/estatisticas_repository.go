package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
)

// EstatisticasRepo computes the dashboard aggregate. Everything is read
// straight from the tables on each call so the numbers always reflect the
// current state.
type EstatisticasRepo struct {
	db *sql.DB
}

func NewEstatisticasRepo(db *sql.DB) *EstatisticasRepo {
	return &EstatisticasRepo{db: db}
}

// Coletar assembles the full dashboard payload.
func (r *EstatisticasRepo) Coletar(ctx context.Context) (*model.Estatisticas, error) {
	agora := time.Now().UTC()
	umMesAtras := agora.AddDate(0, 0, -30)
	est := &model.Estatisticas{}

	if err := r.resumoGeral(ctx, &est.ResumoGeral); err != nil {
		return nil, err
	}
	if err := r.leituras(ctx, &est.Leituras, agora, umMesAtras); err != nil {
		return nil, err
	}
	if err := r.rankings(ctx, &est.Rankings); err != nil {
		return nil, err
	}
	tendencias(&est.Tendencias, est.ResumoGeral)
	return est, nil
}

func (r *EstatisticasRepo) resumoGeral(ctx context.Context, g *model.ResumoGeral) error {
	counts := []struct {
		q    string
		args []any
		dest *int
	}{
		{"SELECT COUNT(*) FROM membros_familia WHERE ativo = ?", []any{true}, &g.TotalMembros},
		{"SELECT COUNT(*) FROM livros", nil, &g.TotalLivros},
		{"SELECT COUNT(*) FROM livros WHERE disponivel = ?", []any{true}, &g.LivrosDisponiveis},
		{"SELECT COUNT(*) FROM emprestimos", nil, &g.TotalEmprestimosHistorico},
		{"SELECT COUNT(*) FROM livros WHERE classicos_familia = ?", []any{true}, &g.TotalClassicosFamilia},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, c.q, c.args...).Scan(c.dest); err != nil {
			return err
		}
	}
	g.LivrosEmprestados = g.TotalLivros - g.LivrosDisponiveis

	var valor float64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(valor_estimado), 0) FROM livros").Scan(&valor); err != nil {
		return err
	}
	g.ValorTotalBiblioteca = math.Round(valor*100) / 100
	return nil
}

func (r *EstatisticasRepo) leituras(ctx context.Context, l *model.Leituras, agora, umMesAtras time.Time) error {
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM emprestimos WHERE status = ?",
		model.StatusAtivo).Scan(&l.EmprestimosAtivos); err != nil {
		return err
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM emprestimos WHERE status = ? AND data_devolucao >= ?",
		model.StatusDevolvido, umMesAtras).Scan(&l.LivrosLidosUltimoMes); err != nil {
		return err
	}

	err := r.db.QueryRowContext(ctx,
		`SELECT l.genero FROM emprestimos e
		 JOIN livros l ON l.id_livro = e.id_livro
		 WHERE l.genero IS NOT NULL
		 GROUP BY l.genero
		 ORDER BY COUNT(*) DESC
		 LIMIT 1`).Scan(&l.GeneroMaisPopular)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	// leitor do mês conta devoluções, não retiradas: quem pegou e não
	// devolveu (ou levou para um amigo) não concorre.
	l.LeitorDoMes = "Nenhum"
	var leitor string
	err = r.db.QueryRowContext(ctx,
		`SELECT m.nome FROM emprestimos e
		 JOIN membros_familia m ON m.id_membro = e.id_membro
		 WHERE e.status = ? AND e.tipo_emprestimo = ? AND e.data_devolucao >= ?
		 GROUP BY m.id_membro, m.nome
		 ORDER BY COUNT(*) DESC
		 LIMIT 1`, model.StatusDevolvido, model.TipoInterno, umMesAtras).Scan(&leitor)
	if err == nil {
		l.LeitorDoMes = leitor
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var total, atrasados int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM emprestimos").Scan(&total); err != nil {
		return err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM emprestimos
		 WHERE status = ? OR (status = ? AND data_prevista_devolucao < ?)`,
		model.StatusAtrasado, model.StatusAtivo, agora).Scan(&atrasados); err != nil {
		return err
	}
	if total > 0 {
		l.TaxaAtraso = math.Round(float64(atrasados)/float64(total)*1000) / 10
	}
	return nil
}

func (r *EstatisticasRepo) rankings(ctx context.Context, rk *model.Rankings) error {
	rk.LivrosMaisEmprestados = []model.LivroEmprestado{}
	rows, err := r.db.QueryContext(ctx,
		`SELECT l.titulo, l.autor, COUNT(*) FROM emprestimos e
		 JOIN livros l ON l.id_livro = e.id_livro
		 GROUP BY l.id_livro, l.titulo, l.autor
		 ORDER BY COUNT(*) DESC
		 LIMIT 5`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var le model.LivroEmprestado
		if err := rows.Scan(&le.Titulo, &le.Autor, &le.Total); err != nil {
			return err
		}
		rk.LivrosMaisEmprestados = append(rk.LivrosMaisEmprestados, le)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rk.TopLeitores = []model.LeitorRanking{}
	rows, err = r.db.QueryContext(ctx,
		`SELECT nome, pontos_leitura FROM membros_familia
		 WHERE ativo = ?
		 ORDER BY pontos_leitura DESC
		 LIMIT 5`, true)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var lr model.LeitorRanking
		if err := rows.Scan(&lr.Nome, &lr.Pontos); err != nil {
			return err
		}
		lr.Nivel = model.NivelLeitor(lr.Pontos)
		rk.TopLeitores = append(rk.TopLeitores, lr)
	}
	return rows.Err()
}

// tendencias projeta o histórico completo sobre um ano cheio.
func tendencias(t *model.Tendencias, g model.ResumoGeral) {
	if g.TotalEmprestimosHistorico > 0 {
		t.MediaEmprestimosPorMes = math.Round(float64(g.TotalEmprestimosHistorico)/12*10) / 10
	}
	if g.TotalLivros > 0 {
		t.PercentualLivrosEmprestados = math.Round(float64(g.LivrosEmprestados)/float64(g.TotalLivros)*1000) / 10
	}
}
