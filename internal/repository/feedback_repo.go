package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"deepmirror/internal/domain"
)

// FeedbackRepository define el contrato de persistencia para feedback.
type FeedbackRepository interface {
	// Create inserta el feedback y completa su ID secuencial.
	Create(ctx context.Context, feedback *domain.Feedback) error
	Count(ctx context.Context) (int64, error)
	// PurgeCreatedBefore borra en una sola transaccion todo lo creado estrictamente antes de cutoff.
	PurgeCreatedBefore(ctx context.Context, cutoff time.Time) (domain.PurgeReport, error)
}

type PgFeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewPgFeedbackRepository(pool *pgxpool.Pool) *PgFeedbackRepository {
	return &PgFeedbackRepository{pool: pool}
}

func (r *PgFeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
		INSERT INTO feedback (sender_name, email, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.pool.QueryRow(ctx, query,
		feedback.SenderName,
		feedback.Email,
		feedback.Content,
		feedback.CreatedAt,
	).Scan(&feedback.ID)
}

func (r *PgFeedbackRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&n)
	return n, err
}

func (r *PgFeedbackRepository) PurgeCreatedBefore(ctx context.Context, cutoff time.Time) (domain.PurgeReport, error) {
	report := domain.PurgeReport{Cutoff: cutoff}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return report, fmt.Errorf("begin purge tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&report.Before); err != nil {
		return report, fmt.Errorf("count before purge: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM feedback WHERE created_at < $1`, cutoff)
	if err != nil {
		return report, fmt.Errorf("delete old feedback: %w", err)
	}
	report.Deleted = tag.RowsAffected()
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&report.After); err != nil {
		return report, fmt.Errorf("count after purge: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return report, fmt.Errorf("commit purge tx: %w", err)
	}
	return report, nil
}
