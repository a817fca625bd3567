package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lucasmrqs/biblioteca-familiar/internal/model"
)

const membroCols = "id_membro, nome, email, apelido, idade, tipo, avatar_cor, generos_favoritos, data_cadastro, ativo, pontos_leitura, senha_hash"

// MembroRepo encapsulates all database queries related to family members.
type MembroRepo struct {
	db *sql.DB
}

func NewMembroRepo(db *sql.DB) *MembroRepo {
	return &MembroRepo{db: db}
}

// Create inserts a new member. On success the ID and registration timestamp
// are populated. A duplicate email yields ErrEmailExists.
func (r *MembroRepo) Create(ctx context.Context, m *model.Membro) error {
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	if m.Tipo == "" {
		m.Tipo = model.TipoMembro
	}
	if m.AvatarCor == "" {
		m.AvatarCor = model.AvatarCorPadrao
	}
	if m.DataCadastro.IsZero() {
		m.DataCadastro = time.Now().UTC()
	}
	const q = `INSERT INTO membros_familia
	           (nome, email, apelido, idade, tipo, avatar_cor, generos_favoritos, data_cadastro, ativo, pontos_leitura, senha_hash)
	           VALUES (?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		m.Nome, m.Email, m.Apelido, m.Idade, m.Tipo, m.AvatarCor,
		model.JoinCSV(m.GenerosFavoritos), m.DataCadastro, true, 0, m.SenhaHash)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	m.Ativo = true
	m.PontosLeitura = 0
	m.Derivar()
	return nil
}

// GetByID fetches a member by id, active or not.
func (r *MembroRepo) GetByID(ctx context.Context, id uint64) (*model.Membro, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+membroCols+" FROM membros_familia WHERE id_membro = ?", id)
	return scanMembro(row)
}

// GetByEmail fetches a member by normalized email.
func (r *MembroRepo) GetByEmail(ctx context.Context, email string) (*model.Membro, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.db.QueryRowContext(ctx,
		"SELECT "+membroCols+" FROM membros_familia WHERE email = ?", email)
	return scanMembro(row)
}

// ListAtivos returns all active members ordered by id. Soft-deleted members
// never show up in listings.
func (r *MembroRepo) ListAtivos(ctx context.Context) ([]*model.Membro, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+membroCols+" FROM membros_familia WHERE ativo = ? ORDER BY id_membro", true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Membro{}
	for rows.Next() {
		m, err := scanMembro(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of the patch and returns the updated
// member. ErrMembroNotFound when the id does not resolve.
func (r *MembroRepo) Update(ctx context.Context, id uint64, p model.MembroPatch) (*model.Membro, error) {
	set := []string{}
	args := []any{}
	if p.Nome != nil {
		set, args = append(set, "nome = ?"), append(args, *p.Nome)
	}
	if p.Apelido != nil {
		set, args = append(set, "apelido = ?"), append(args, *p.Apelido)
	}
	if p.Idade != nil {
		set, args = append(set, "idade = ?"), append(args, *p.Idade)
	}
	if p.Tipo != nil {
		set, args = append(set, "tipo = ?"), append(args, *p.Tipo)
	}
	if p.AvatarCor != nil {
		set, args = append(set, "avatar_cor = ?"), append(args, *p.AvatarCor)
	}
	if p.GenerosFavoritos != nil {
		set, args = append(set, "generos_favoritos = ?"), append(args, model.JoinCSV(p.GenerosFavoritos))
	}
	if len(set) > 0 {
		args = append(args, id)
		res, err := r.db.ExecContext(ctx,
			"UPDATE membros_familia SET "+strings.Join(set, ", ")+" WHERE id_membro = ?", args...)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// Distinguish "no such member" from "nothing changed".
			if _, err := r.GetByID(ctx, id); err != nil {
				return nil, err
			}
		}
	}
	return r.GetByID(ctx, id)
}

// Desativar soft-deletes a member. Their loans, reviews and points survive.
func (r *MembroRepo) Desativar(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE membros_familia SET ativo = ? WHERE id_membro = ?", false, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMembro(row rowScanner) (*model.Membro, error) {
	var m model.Membro
	var generos string
	err := row.Scan(&m.ID, &m.Nome, &m.Email, &m.Apelido, &m.Idade, &m.Tipo,
		&m.AvatarCor, &generos, &m.DataCadastro, &m.Ativo, &m.PontosLeitura, &m.SenhaHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembroNotFound
		}
		return nil, err
	}
	m.GenerosFavoritos = model.SplitCSV(generos)
	m.Derivar()
	return &m, nil
}
