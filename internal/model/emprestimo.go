package model

import "time"

// Loan kinds and statuses stored in emprestimos.tipo_emprestimo / status.
const (
	TipoInterno = "interno"
	TipoExterno = "externo"

	StatusAtivo     = "ativo"
	StatusDevolvido = "devolvido"
	StatusAtrasado  = "atrasado"
	StatusPerdido   = "perdido"
)

// Loan terms in days by kind, and the points awarded on return.
const (
	PrazoInternoDias = 30
	PrazoExternoDias = 14

	PontosDevolucaoBase = 10  // fallback when the page count is unknown
	PontosDevolucaoMax  = 100 // cap on page-derived points
	BonusDevolucaoPrazo = 20  // returned with zero overdue days
)

// Emprestimo is one borrowing event. External loans carry the friend's name
// and contact; internal loans reference a household member.
type Emprestimo struct {
	ID                    uint64     `json:"id_emprestimo"`           // emprestimos.id_emprestimo
	IDMembro              uint64     `json:"id_membro"`               // emprestimos.id_membro
	IDLivro               uint64     `json:"id_livro"`                // emprestimos.id_livro
	NomeMembro            *string    `json:"nome_membro"`             // joined from membros_familia
	TituloLivro           *string    `json:"titulo_livro"`            // joined from livros
	TipoEmprestimo        string     `json:"tipo_emprestimo"`         // interno | externo
	NomeAmigo             *string    `json:"nome_amigo"`              // emprestimos.nome_amigo
	ContatoAmigo          *string    `json:"contato_amigo"`           // emprestimos.contato_amigo
	DataEmprestimo        time.Time  `json:"data_emprestimo"`         // emprestimos.data_emprestimo
	DataPrevistaDevolucao time.Time  `json:"data_prevista_devolucao"` // emprestimos.data_prevista_devolucao
	DataDevolucao         *time.Time `json:"data_devolucao"`          // emprestimos.data_devolucao (nullable)
	Status                string     `json:"status"`                  // ativo | devolvido | atrasado | perdido
	DiasAtraso            int        `json:"dias_atraso"`             // derived
	Observacoes           *string    `json:"observacoes"`             // emprestimos.observacoes
}

// DataPrevistaPadrao computes the due date applied when the caller does not
// supply one: 30 days for household members, 14 for friends.
func DataPrevistaPadrao(tipo string, emprestadoEm time.Time) time.Time {
	dias := PrazoInternoDias
	if tipo == TipoExterno {
		dias = PrazoExternoDias
	}
	return emprestadoEm.AddDate(0, 0, dias)
}

// DiasAtraso returns whole days elapsed past the due date, never negative.
// A returned loan is by definition no longer late.
func DiasAtraso(status string, prevista time.Time, agora time.Time) int {
	if status == StatusDevolvido {
		return 0
	}
	if agora.After(prevista) {
		return int(agora.Sub(prevista).Hours() / 24)
	}
	return 0
}

// PontosDevolucao computes the reading points earned by a household member
// returning a book: min(100, pages/10) when the page count is known, 10
// otherwise, plus a 20-point bonus when there are no overdue days. External
// loans never reach this function.
func PontosDevolucao(paginas *int, diasAtraso int) int {
	pontos := PontosDevolucaoBase
	if paginas != nil {
		pontos = *paginas / 10
		if pontos > PontosDevolucaoMax {
			pontos = PontosDevolucaoMax
		}
	}
	if diasAtraso == 0 {
		pontos += BonusDevolucaoPrazo
	}
	return pontos
}

// Derivar fills the computed fields after a row scan.
func (e *Emprestimo) Derivar(agora time.Time) {
	e.DiasAtraso = DiasAtraso(e.Status, e.DataPrevistaDevolucao, agora)
}
