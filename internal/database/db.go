package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Dialects accepted by EnsureSchema and Schema.
const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite3"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the application tables when they do not exist yet.
// dialect is "mysql" in production; tests pass "sqlite3" to run the same
// schema against a throwaway file database.
func EnsureSchema(ctx context.Context, db *sql.DB, dialect string) error {
	for _, stmt := range Schema(dialect) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Schema returns the CREATE TABLE statements for the given dialect. The two
// dialects differ only in the auto-increment primary key spelling; everything
// else is portable SQL. Timestamps are written by the application in UTC, so
// no column defaults are declared for them.
func Schema(dialect string) []string {
	pk := "BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY"
	if dialect == DialectSQLite {
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS membros_familia (
			id_membro %s,
			nome VARCHAR(100) NOT NULL,
			email VARCHAR(120) NOT NULL UNIQUE,
			apelido VARCHAR(50),
			idade INTEGER,
			tipo VARCHAR(20) NOT NULL DEFAULT 'membro',
			avatar_cor VARCHAR(7) NOT NULL DEFAULT '#3B82F6',
			generos_favoritos VARCHAR(200) NOT NULL DEFAULT '',
			data_cadastro DATETIME NOT NULL,
			ativo BOOLEAN NOT NULL DEFAULT TRUE,
			pontos_leitura INTEGER NOT NULL DEFAULT 0,
			senha_hash VARCHAR(100)
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS livros (
			id_livro %s,
			isbn VARCHAR(13) UNIQUE,
			titulo VARCHAR(200) NOT NULL,
			autor VARCHAR(200) NOT NULL,
			editora VARCHAR(100),
			ano_publicacao INTEGER,
			genero VARCHAR(100),
			subgenero VARCHAR(100),
			idioma VARCHAR(30) NOT NULL DEFAULT 'Português',
			num_paginas INTEGER,
			idade_recomendada VARCHAR(20) NOT NULL DEFAULT 'Todas',
			localizacao VARCHAR(50),
			estado_conservacao VARCHAR(20) NOT NULL DEFAULT 'Bom',
			disponivel BOOLEAN NOT NULL DEFAULT TRUE,
			capa_url VARCHAR(300),
			sinopse TEXT,
			data_aquisicao DATETIME NOT NULL,
			origem VARCHAR(100),
			valor_estimado DOUBLE,
			classicos_familia BOOLEAN NOT NULL DEFAULT FALSE
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS emprestimos (
			id_emprestimo %s,
			id_membro BIGINT NOT NULL,
			id_livro BIGINT NOT NULL,
			data_emprestimo DATETIME NOT NULL,
			data_prevista_devolucao DATETIME NOT NULL,
			data_devolucao DATETIME,
			tipo_emprestimo VARCHAR(20) NOT NULL DEFAULT 'interno',
			nome_amigo VARCHAR(100),
			contato_amigo VARCHAR(100),
			status VARCHAR(20) NOT NULL DEFAULT 'ativo',
			observacoes TEXT
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS avaliacoes (
			id_avaliacao %s,
			id_membro BIGINT NOT NULL,
			id_livro BIGINT NOT NULL,
			nota INTEGER NOT NULL,
			comentario TEXT,
			recomenda_para_idade VARCHAR(20),
			tags VARCHAR(200) NOT NULL DEFAULT '',
			data_avaliacao DATETIME NOT NULL,
			leitura_completa BOOLEAN NOT NULL DEFAULT TRUE,
			UNIQUE (id_membro, id_livro)
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS wishlist (
			id_wishlist %s,
			id_membro BIGINT NOT NULL,
			id_livro BIGINT,
			titulo_desejado VARCHAR(200),
			autor_desejado VARCHAR(200),
			prioridade VARCHAR(20) NOT NULL DEFAULT 'média',
			data_adicao DATETIME NOT NULL,
			notas TEXT
		)`, pk),
	}
}
