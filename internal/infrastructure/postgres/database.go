package postgres

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// Connect creates a new database connection pool
func Connect(databaseURL string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Println("[DB] connected")
	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.Pool.Close()
}

// RunMigrations applies all pending migrations in version order
func (db *DB) RunMigrations(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for version := 1; version <= len(migrations); version++ {
		var exists bool
		err := db.Pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
			version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", version, err)
		}
		if exists {
			continue
		}

		log.Printf("[DB] applying migration %d...", version)
		if _, err := db.Pool.Exec(ctx, migrations[version]); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", version, err)
		}
		if _, err := db.Pool.Exec(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1)", version,
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}
	}

	return nil
}

// migrations maps version to SQL
var migrations = map[int]string{
	1: migration001,
	2: migration002,
}

const migration001 = `
-- Catalog tables mirror the upstream scraper schema

CREATE TABLE IF NOT EXISTS restaurantes (
    id BIGSERIAL PRIMARY KEY,
    geraldo_id BIGINT NOT NULL,
    nome VARCHAR(255) NOT NULL,
    ifood_uuid VARCHAR(64),
    geraldo_link TEXT,
    vitrine_link TEXT,
    ifood_link TEXT,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS categorias (
    id BIGSERIAL PRIMARY KEY,
    restaurante_id BIGINT NOT NULL REFERENCES restaurantes(id) ON DELETE CASCADE,
    nome VARCHAR(255) NOT NULL,
    origem VARCHAR(16) NOT NULL CHECK (origem IN ('geraldo', 'ifood')),
    origem_id VARCHAR(64),
    created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS itens (
    id BIGSERIAL PRIMARY KEY,
    categoria_id BIGINT NOT NULL REFERENCES categorias(id) ON DELETE CASCADE,
    nome VARCHAR(255) NOT NULL,
    descricao TEXT,
    imagem_url TEXT,
    origem VARCHAR(16) NOT NULL CHECK (origem IN ('geraldo', 'ifood')),
    origem_id VARCHAR(64),
    created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS precos (
    id BIGSERIAL PRIMARY KEY,
    item_id BIGINT NOT NULL REFERENCES itens(id) ON DELETE CASCADE,
    valor DECIMAL(10, 2),
    tamanho_nome VARCHAR(100)
);

CREATE INDEX IF NOT EXISTS idx_categorias_restaurante ON categorias(restaurante_id, origem);
CREATE INDEX IF NOT EXISTS idx_itens_categoria ON itens(categoria_id);
CREATE INDEX IF NOT EXISTS idx_precos_item ON precos(item_id);
`

const migration002 = `
-- Match records: one live decision per (restaurante, item geraldo)

CREATE TABLE IF NOT EXISTS item_matches (
    id BIGSERIAL PRIMARY KEY,
    restaurante_id BIGINT NOT NULL REFERENCES restaurantes(id) ON DELETE CASCADE,
    item_geraldo_id BIGINT NOT NULL REFERENCES itens(id) ON DELETE CASCADE,
    item_ifood_id BIGINT REFERENCES itens(id),
    confianca INT NOT NULL DEFAULT 0 CHECK (confianca BETWEEN 0 AND 100),
    status VARCHAR(20) NOT NULL DEFAULT 'pendente'
        CHECK (status IN ('auto', 'pendente', 'confirmado', 'sem_match', 'rejeitado')),
    match_por VARCHAR(50),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT unique_restaurante_item_geraldo UNIQUE (restaurante_id, item_geraldo_id)
);

CREATE INDEX IF NOT EXISTS idx_item_matches_restaurante ON item_matches(restaurante_id);
CREATE INDEX IF NOT EXISTS idx_item_matches_status ON item_matches(restaurante_id, status);
`
