// Package model defines the entities persisted by the application along with
// the derived-field computations that belong to them. Repositories fill these
// structs straight from query results and handlers serialize them as-is, so
// the JSON tags are the public API field names.
package model

import (
	"strings"
	"time"
)

// Member role values stored in membros_familia.tipo.
const (
	TipoMembro        = "membro"
	TipoAdministrador = "administrador"
	TipoCrianca       = "criança"
)

// AvatarCorPadrao is assigned to members registered without a color.
const AvatarCorPadrao = "#3B82F6"

// Membro is a household reader.
//
// Fields:
//  ID               – primary key identifier.
//  Nome             – full name (required).
//  Email            – unique contact email (required).
//  Apelido          – optional nickname.
//  Idade            – optional age.
//  Tipo             – membro, administrador or criança.
//  AvatarCor        – hex color for the UI avatar.
//  GenerosFavoritos – favorite genres, stored as a comma-separated column.
//  DataCadastro     – registration timestamp.
//  Ativo            – false means soft-deleted.
//  PontosLeitura    – gamification counter, never negative.
//  NivelLeitor      – derived from PontosLeitura, see NivelLeitor().
type Membro struct {
	ID               uint64    `json:"id_membro"`          // membros_familia.id_membro
	Nome             string    `json:"nome"`               // membros_familia.nome
	Email            string    `json:"email"`              // membros_familia.email
	Apelido          *string   `json:"apelido"`            // membros_familia.apelido (nullable)
	Idade            *int      `json:"idade"`              // membros_familia.idade (nullable)
	Tipo             string    `json:"tipo"`               // membros_familia.tipo
	AvatarCor        string    `json:"avatar_cor"`         // membros_familia.avatar_cor
	GenerosFavoritos []string  `json:"generos_favoritos"`  // membros_familia.generos_favoritos (CSV)
	DataCadastro     time.Time `json:"data_cadastro"`      // membros_familia.data_cadastro
	Ativo            bool      `json:"ativo"`              // membros_familia.ativo
	PontosLeitura    int       `json:"pontos_leitura"`     // membros_familia.pontos_leitura
	NivelLeitor      string    `json:"nivel_leitor"`       // derived
	SenhaHash        *string   `json:"-"`                  // membros_familia.senha_hash, never serialized
}

// MembroPatch carries the fields a member update may change. Nil means
// "leave untouched"; this replaces the original's reflective allow-list.
type MembroPatch struct {
	Nome             *string  `json:"nome"`
	Apelido          *string  `json:"apelido"`
	Idade            *int     `json:"idade"`
	Tipo             *string  `json:"tipo"`
	AvatarCor        *string  `json:"avatar_cor"`
	GenerosFavoritos []string `json:"generos_favoritos"`
}

// NivelLeitor maps accumulated reading points onto the reader level shown on
// member payloads. The boundaries are inclusive on the lower edge: 100 points
// is already "Leitor".
func NivelLeitor(pontos int) string {
	switch {
	case pontos < 100:
		return "Iniciante"
	case pontos < 500:
		return "Leitor"
	case pontos < 1000:
		return "Bookworm"
	default:
		return "Mestre dos Livros"
	}
}

// Derivar fills the computed fields after a row scan.
func (m *Membro) Derivar() {
	m.NivelLeitor = NivelLeitor(m.PontosLeitura)
	if m.GenerosFavoritos == nil {
		m.GenerosFavoritos = []string{}
	}
}

// SplitCSV turns a comma-separated column into a slice, dropping empty
// entries. An empty column yields an empty (non-nil) slice.
func SplitCSV(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinCSV is the inverse of SplitCSV.
func JoinCSV(items []string) string {
	return strings.Join(items, ",")
}
