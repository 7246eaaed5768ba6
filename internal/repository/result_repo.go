package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deepmirror/internal/domain"
)

// ErrResultNotFound indica que no existe un resultado con el id pedido.
var ErrResultNotFound = errors.New("result not found")

// ResultRepository define el contrato de persistencia para resultados.
// Los resultados son de solo-insercion: no hay update ni delete.
type ResultRepository interface {
	Create(ctx context.Context, result domain.Result) error
	GetByID(ctx context.Context, id string) (domain.Result, error)
}

// PgResultRepository implementa ResultRepository usando pgxpool.
type PgResultRepository struct {
	pool *pgxpool.Pool
}

func NewPgResultRepository(pool *pgxpool.Pool) *PgResultRepository {
	return &PgResultRepository{pool: pool}
}

func (r *PgResultRepository) Create(ctx context.Context, result domain.Result) error {
	const query = `
		INSERT INTO results (id, nickname, openness, conscientiousness, extraversion, agreeableness, neuroticism, ai_analysis, detail_scores, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		result.ID,
		result.Nickname,
		result.Openness,
		result.Conscientiousness,
		result.Extraversion,
		result.Agreeableness,
		result.Neuroticism,
		result.AIAnalysis,
		result.DetailScores,
		result.CreatedAt,
	)
	return err
}

func (r *PgResultRepository) GetByID(ctx context.Context, id string) (domain.Result, error) {
	const query = `
		SELECT id::text, nickname, openness, conscientiousness, extraversion, agreeableness, neuroticism, ai_analysis, detail_scores, created_at
		FROM results
		WHERE id = $1
	`
	var res domain.Result
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&res.ID,
		&res.Nickname,
		&res.Openness,
		&res.Conscientiousness,
		&res.Extraversion,
		&res.Agreeableness,
		&res.Neuroticism,
		&res.AIAnalysis,
		&res.DetailScores,
		&res.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Result{}, ErrResultNotFound
	}
	if err != nil {
		return domain.Result{}, err
	}
	res.CreatedAt = res.CreatedAt.UTC()
	return res, nil
}
