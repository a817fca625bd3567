package model

// Estatisticas is the dashboard aggregate. Every field is recomputed from the
// store on each request; nothing here is cached.
type Estatisticas struct {
	ResumoGeral ResumoGeral `json:"resumo_geral"`
	Leituras    Leituras    `json:"leituras"`
	Rankings    Rankings    `json:"rankings"`
	Tendencias  Tendencias  `json:"tendencias"`
}

// ResumoGeral holds the headline counts and the estimated collection value.
type ResumoGeral struct {
	TotalMembros              int     `json:"total_membros"`
	TotalLivros               int     `json:"total_livros"`
	LivrosDisponiveis         int     `json:"livros_disponiveis"`
	LivrosEmprestados         int     `json:"livros_emprestados"`
	ValorTotalBiblioteca      float64 `json:"valor_total_biblioteca"`
	TotalEmprestimosHistorico int     `json:"total_emprestimos_historico"`
	TotalClassicosFamilia     int     `json:"total_classicos_familia"`
}

// Leituras covers recent reading activity (trailing 30 days).
type Leituras struct {
	EmprestimosAtivos    int     `json:"emprestimos_ativos"`
	LivrosLidosUltimoMes int     `json:"livros_lidos_ultimo_mes"`
	GeneroMaisPopular    *string `json:"genero_mais_popular"`
	LeitorDoMes          string  `json:"leitor_do_mes"`
	TaxaAtraso           float64 `json:"taxa_atraso"`
}

// Rankings lists the most-borrowed books and the members with the most
// reading points.
type Rankings struct {
	LivrosMaisEmprestados []LivroEmprestado `json:"livros_mais_emprestados"`
	TopLeitores           []LeitorRanking   `json:"top_leitores"`
}

// LivroEmprestado is one entry of the most-borrowed ranking.
type LivroEmprestado struct {
	Titulo string `json:"titulo"`
	Autor  string `json:"autor"`
	Total  int    `json:"total"`
}

// LeitorRanking is one entry of the reading-points ranking.
type LeitorRanking struct {
	Nome   string `json:"nome"`
	Pontos int    `json:"pontos"`
	Nivel  string `json:"nivel"`
}

// Tendencias holds the crude trend numbers the dashboard charts.
type Tendencias struct {
	MediaEmprestimosPorMes      float64 `json:"media_emprestimos_por_mes"`
	PercentualLivrosEmprestados float64 `json:"percentual_livros_emprestados"`
}
