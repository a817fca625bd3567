// Package queue publishes loan lifecycle events to RabbitMQ and runs the
// background consumer that appends them to logs/emprestimos.log. Publishing
// is opt-in and always post-commit: a broker failure never undoes a loan.
package queue

// Loan event kinds.
const (
	EventoEmprestado = "emprestado"
	EventoDevolvido  = "devolvido"
)

// EmprestimoEvent is published after a borrow or return commits. It carries
// enough context for downstream consumers to log or notify without querying
// the database.
type EmprestimoEvent struct {
	TipoEvento     string `json:"tipo_evento"`
	IDEmprestimo   uint64 `json:"id_emprestimo"`
	IDLivro        uint64 `json:"id_livro"`
	TituloLivro    string `json:"titulo_livro"`
	IDMembro       uint64 `json:"id_membro"`
	NomeMembro     string `json:"nome_membro"`
	TipoEmprestimo string `json:"tipo_emprestimo"`
	PontosGanhos   int    `json:"pontos_ganhos"`
	OcorridoEm     string `json:"ocorrido_em"`
}
