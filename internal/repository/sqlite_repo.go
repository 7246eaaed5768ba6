package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"deepmirror/internal/domain"
)

// SQLiteResultRepository implementa ResultRepository sobre database/sql + modernc sqlite.
type SQLiteResultRepository struct {
	db *sql.DB
}

func NewSQLiteResultRepository(db *sql.DB) *SQLiteResultRepository {
	return &SQLiteResultRepository{db: db}
}

func (r *SQLiteResultRepository) Create(ctx context.Context, result domain.Result) error {
	const query = `
		INSERT INTO results (id, nickname, openness, conscientiousness, extraversion, agreeableness, neuroticism, ai_analysis, detail_scores, created_at_us)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	var detail sql.NullString
	if result.DetailScores != nil {
		detail = sql.NullString{String: *result.DetailScores, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, query,
		result.ID,
		result.Nickname,
		result.Openness,
		result.Conscientiousness,
		result.Extraversion,
		result.Agreeableness,
		result.Neuroticism,
		result.AIAnalysis,
		detail,
		result.CreatedAt.UnixMicro(),
	)
	return err
}

func (r *SQLiteResultRepository) GetByID(ctx context.Context, id string) (domain.Result, error) {
	const query = `
		SELECT id, nickname, openness, conscientiousness, extraversion, agreeableness, neuroticism, ai_analysis, detail_scores, created_at_us
		FROM results
		WHERE id = ?
	`
	var (
		res       domain.Result
		detail    sql.NullString
		createdUS int64
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&res.ID,
		&res.Nickname,
		&res.Openness,
		&res.Conscientiousness,
		&res.Extraversion,
		&res.Agreeableness,
		&res.Neuroticism,
		&res.AIAnalysis,
		&detail,
		&createdUS,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Result{}, ErrResultNotFound
	}
	if err != nil {
		return domain.Result{}, err
	}
	if detail.Valid {
		val := detail.String
		res.DetailScores = &val
	}
	res.CreatedAt = time.UnixMicro(createdUS).UTC()
	return res, nil
}

// SQLiteFeedbackRepository implementa FeedbackRepository sobre SQLite.
type SQLiteFeedbackRepository struct {
	db *sql.DB
}

func NewSQLiteFeedbackRepository(db *sql.DB) *SQLiteFeedbackRepository {
	return &SQLiteFeedbackRepository{db: db}
}

func (r *SQLiteFeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
		INSERT INTO feedback (sender_name, email, content, created_at_us)
		VALUES (?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		feedback.SenderName,
		feedback.Email,
		feedback.Content,
		feedback.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("feedback last insert id: %w", err)
	}
	feedback.ID = id
	return nil
}

func (r *SQLiteFeedbackRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&n)
	return n, err
}

func (r *SQLiteFeedbackRepository) PurgeCreatedBefore(ctx context.Context, cutoff time.Time) (domain.PurgeReport, error) {
	report := domain.PurgeReport{Cutoff: cutoff}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("begin purge tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&report.Before); err != nil {
		return report, fmt.Errorf("count before purge: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM feedback WHERE created_at_us < ?`, cutoff.UnixMicro())
	if err != nil {
		return report, fmt.Errorf("delete old feedback: %w", err)
	}
	if report.Deleted, err = res.RowsAffected(); err != nil {
		return report, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&report.After); err != nil {
		return report, fmt.Errorf("count after purge: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit purge tx: %w", err)
	}
	return report, nil
}
