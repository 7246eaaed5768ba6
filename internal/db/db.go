package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	// Configuración razonable para ambientes iniciales.
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS results (
		id                UUID PRIMARY KEY,
		nickname          TEXT NOT NULL,
		openness          INTEGER NOT NULL CHECK (openness BETWEEN 0 AND 100),
		conscientiousness INTEGER NOT NULL CHECK (conscientiousness BETWEEN 0 AND 100),
		extraversion      INTEGER NOT NULL CHECK (extraversion BETWEEN 0 AND 100),
		agreeableness     INTEGER NOT NULL CHECK (agreeableness BETWEEN 0 AND 100),
		neuroticism       INTEGER NOT NULL CHECK (neuroticism BETWEEN 0 AND 100),
		ai_analysis       TEXT NOT NULL,
		detail_scores     TEXT,
		created_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id          BIGSERIAL PRIMARY KEY,
		sender_name VARCHAR(100) NOT NULL,
		email       VARCHAR(255) NOT NULL,
		content     TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback (created_at)`,
}

// Migrate crea las tablas si no existen. Es idempotente.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
