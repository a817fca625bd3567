package model

import (
	"math"
	"time"
)

// Defaults applied when cataloging a book without the optional fields.
const (
	IdiomaPadrao            = "Português"
	IdadeRecomendadaPadrao  = "Todas"
	EstadoConservacaoPadrao = "Bom"
)

// Livro is a catalog entry. A book with an open loan has Disponivel=false and
// Status "emprestado"; deletion is only allowed while Disponivel is true.
type Livro struct {
	ID                uint64     `json:"id_livro"`           // livros.id_livro
	ISBN              *string    `json:"isbn"`               // livros.isbn (nullable, unique)
	Titulo            string     `json:"titulo"`             // livros.titulo
	Autor             string     `json:"autor"`              // livros.autor
	Editora           *string    `json:"editora"`            // livros.editora
	AnoPublicacao     *int       `json:"ano_publicacao"`     // livros.ano_publicacao
	Genero            *string    `json:"genero"`             // livros.genero
	Subgenero         *string    `json:"subgenero"`          // livros.subgenero
	Idioma            string     `json:"idioma"`             // livros.idioma
	NumPaginas        *int       `json:"num_paginas"`        // livros.num_paginas
	IdadeRecomendada  string     `json:"idade_recomendada"`  // livros.idade_recomendada
	Localizacao       *string    `json:"localizacao"`        // livros.localizacao
	EstadoConservacao string     `json:"estado_conservacao"` // livros.estado_conservacao
	Status            string     `json:"status"`             // derived: disponivel/emprestado
	Disponivel        bool       `json:"disponivel"`         // livros.disponivel
	CapaURL           *string    `json:"capa_url"`           // livros.capa_url
	Sinopse           *string    `json:"sinopse"`            // livros.sinopse
	DataAquisicao     time.Time  `json:"data_aquisicao"`     // livros.data_aquisicao
	Origem            *string    `json:"origem"`             // livros.origem
	ValorEstimado     *float64   `json:"valor_estimado"`     // livros.valor_estimado
	ClassicosFamilia  bool       `json:"classicos_familia"`  // livros.classicos_familia
	NotaMedia         float64    `json:"nota_media"`         // derived: mean review score, 0 if none
	TotalAvaliacoes   int        `json:"total_avaliacoes"`   // derived: review count
}

// LivroPatch lists every field a catalog update may touch. Identity and
// availability are deliberately absent: availability only moves through the
// loan lifecycle.
type LivroPatch struct {
	Titulo            *string  `json:"titulo"`
	Autor             *string  `json:"autor"`
	Editora           *string  `json:"editora"`
	AnoPublicacao     *int     `json:"ano_publicacao"`
	Genero            *string  `json:"genero"`
	Subgenero         *string  `json:"subgenero"`
	Idioma            *string  `json:"idioma"`
	NumPaginas        *int     `json:"num_paginas"`
	IdadeRecomendada  *string  `json:"idade_recomendada"`
	Localizacao       *string  `json:"localizacao"`
	EstadoConservacao *string  `json:"estado_conservacao"`
	CapaURL           *string  `json:"capa_url"`
	Sinopse           *string  `json:"sinopse"`
	Origem            *string  `json:"origem"`
	ValorEstimado     *float64 `json:"valor_estimado"`
	ClassicosFamilia  *bool    `json:"classicos_familia"`
}

// ArredondaNota rounds a mean review score to one decimal place, the
// precision used everywhere scores are reported.
func ArredondaNota(n float64) float64 {
	return math.Round(n*10) / 10
}

// Derivar fills the computed fields after a row scan. The raw mean comes from
// the rating subquery; rounding happens here so every read path agrees.
func (l *Livro) Derivar() {
	if l.Disponivel {
		l.Status = "disponivel"
	} else {
		l.Status = "emprestado"
	}
	l.NotaMedia = ArredondaNota(l.NotaMedia)
}
