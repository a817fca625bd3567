package model

import "time"

// Wishlist priorities, ranked alta=1, média=2, baixa=3 for ordering.
const (
	PrioridadeBaixa = "baixa"
	PrioridadeMedia = "média"
	PrioridadeAlta  = "alta"
)

// Points awarded to the suggesting member when an uncataloged wishlist entry
// is purchased and turned into a catalog book.
const PontosSugestaoAceita = 30

// Wishlist is a desired book. It references either a cataloged Livro or a
// free-form desired title/author pair, never neither.
type Wishlist struct {
	ID             uint64    `json:"id_wishlist"`     // wishlist.id_wishlist
	IDMembro       uint64    `json:"id_membro"`       // wishlist.id_membro
	NomeMembro     *string   `json:"nome_membro"`     // joined from membros_familia
	IDLivro        *uint64   `json:"id_livro"`        // wishlist.id_livro (nullable)
	TituloLivro    *string   `json:"titulo_livro"`    // catalog title, or titulo_desejado
	AutorLivro     *string   `json:"autor_livro"`     // catalog author, or autor_desejado
	TituloDesejado *string   `json:"-"`               // wishlist.titulo_desejado
	AutorDesejado  *string   `json:"-"`               // wishlist.autor_desejado
	Prioridade     string    `json:"prioridade"`      // baixa | média | alta
	DataAdicao     time.Time `json:"data_adicao"`     // wishlist.data_adicao
	Notas          *string   `json:"notas"`           // wishlist.notas
}

// WishlistPatch carries the fields a wishlist update may change.
type WishlistPatch struct {
	Prioridade     *string `json:"prioridade"`
	Notas          *string `json:"notas"`
	TituloDesejado *string `json:"titulo_desejado"`
	AutorDesejado  *string `json:"autor_desejado"`
}

// CompraLivro carries the optional catalog details supplied when an
// uncataloged wishlist entry is purchased and becomes a Livro.
type CompraLivro struct {
	ISBN          *string  `json:"isbn"`
	Editora       *string  `json:"editora"`
	AnoPublicacao *int     `json:"ano_publicacao"`
	Genero        *string  `json:"genero"`
	NumPaginas    *int     `json:"num_paginas"`
	Localizacao   *string  `json:"localizacao"`
	ValorEstimado *float64 `json:"valor_estimado"`
}

// PrioridadeValida reports whether p is one of the three known priorities.
func PrioridadeValida(p string) bool {
	return p == PrioridadeBaixa || p == PrioridadeMedia || p == PrioridadeAlta
}

// Sugestao is one row of the "most wanted" aggregation: an uncataloged title
// desired by more than one member.
type Sugestao struct {
	Titulo            string   `json:"titulo"`
	Autor             *string  `json:"autor"`
	TotalInteressados int      `json:"total_interessados"`
	Membros           []string `json:"membros"`
}
