package model

import "time"

// Points moved by the review lifecycle: creating a review awards them,
// deleting one takes them back (floored at zero on the member).
const PontosAvaliacao = 15

// Score bounds and the threshold below which rating a family classic
// triggers the confirmation advisory.
const (
	NotaMinima         = 1
	NotaMaxima         = 5
	NotaMinimaClassico = 4
)

// Avaliacao is one member's rating of one book. At most one review exists
// per (member, book) pair.
type Avaliacao struct {
	ID                 uint64    `json:"id_avaliacao"`         // avaliacoes.id_avaliacao
	IDMembro           uint64    `json:"id_membro"`            // avaliacoes.id_membro
	IDLivro            uint64    `json:"id_livro"`             // avaliacoes.id_livro
	NomeMembro         *string   `json:"nome_membro"`          // joined from membros_familia
	TituloLivro        *string   `json:"titulo_livro"`         // joined from livros
	Nota               int       `json:"nota"`                 // avaliacoes.nota, 1-5
	Comentario         *string   `json:"comentario"`           // avaliacoes.comentario
	RecomendaParaIdade *string   `json:"recomenda_para_idade"` // avaliacoes.recomenda_para_idade
	Tags               []string  `json:"tags"`                 // avaliacoes.tags (CSV)
	DataAvaliacao      time.Time `json:"data_avaliacao"`       // avaliacoes.data_avaliacao
	LeituraCompleta    bool      `json:"leitura_completa"`     // avaliacoes.leitura_completa
}

// AvaliacaoPatch carries the fields a review update may change.
type AvaliacaoPatch struct {
	Nota               *int     `json:"nota"`
	Comentario         *string  `json:"comentario"`
	RecomendaParaIdade *string  `json:"recomenda_para_idade"`
	Tags               []string `json:"tags"`
	LeituraCompleta    *bool    `json:"leitura_completa"`
}

// NotaValida reports whether a score is inside the 1-5 star range.
func NotaValida(nota int) bool {
	return nota >= NotaMinima && nota <= NotaMaxima
}

// Derivar fills the computed fields after a row scan.
func (a *Avaliacao) Derivar() {
	if a.Tags == nil {
		a.Tags = []string{}
	}
}

// LivroTop is one row of the top-rated listing: a book joined with its
// review aggregate.
type LivroTop struct {
	IDLivro         uint64  `json:"id_livro"`
	Titulo          string  `json:"titulo"`
	Autor           string  `json:"autor"`
	NotaMedia       float64 `json:"nota_media"`
	TotalAvaliacoes int     `json:"total_avaliacoes"`
}
