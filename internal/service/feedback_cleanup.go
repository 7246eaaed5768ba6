package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"deepmirror/internal/domain"
	"deepmirror/internal/repository"
)

// Retention define cuanto feedback se conserva. Years se mide en anios de calendario;
// Window, si es positivo, reemplaza a Years con una duracion fija.
type Retention struct {
	Years  int
	Window time.Duration
}

// DefaultFeedbackRetention es un anio de calendario.
var DefaultFeedbackRetention = Retention{Years: 1}

// Cutoff devuelve el instante antes del cual el feedback se borra.
func (r Retention) Cutoff(now time.Time) time.Time {
	now = now.UTC()
	if r.Window > 0 {
		return now.Add(-r.Window)
	}
	years := r.Years
	if years < 1 {
		years = 1
	}
	return now.AddDate(-years, 0, 0)
}

type redisLocker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// FeedbackCleanupService borra el feedback mas viejo que la retencion configurada.
type FeedbackCleanupService struct {
	logger    *zap.Logger
	feedback  repository.FeedbackRepository
	retention Retention
	lock      redisLocker
	lockTTL   time.Duration
	prefix    string
}

// NewFeedbackCleanupService acepta un cliente redis nil; en ese caso cada corrida diaria procede.
func NewFeedbackCleanupService(logger *zap.Logger, feedback repository.FeedbackRepository, retention Retention, client *redis.Client) *FeedbackCleanupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &FeedbackCleanupService{
		logger:    logger,
		feedback:  feedback,
		retention: retention,
		lockTTL:   24 * time.Hour,
		prefix:    "deepmirror:cleanup:feedback:",
	}
	if client != nil {
		s.lock = client
	}
	return s
}

// Run ejecuta una purga inmediata. Correrla dos veces con el mismo now no borra nada la segunda vez.
func (s *FeedbackCleanupService) Run(ctx context.Context, now time.Time) (domain.PurgeReport, error) {
	cutoff := s.retention.Cutoff(now)
	s.logger.Info("feedback cleanup started", zap.Time("cutoff", cutoff))

	report, err := s.feedback.PurgeCreatedBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("feedback cleanup failed", zap.Error(err), zap.Time("cutoff", cutoff))
		return domain.PurgeReport{}, fmt.Errorf("%w: purge feedback: %w", ErrStorage, err)
	}

	s.logger.Info("feedback cleanup finished",
		zap.Time("cutoff", report.Cutoff),
		zap.Int64("before", report.Before),
		zap.Int64("deleted", report.Deleted),
		zap.Int64("after", report.After),
	)
	return report, nil
}

// RunDaily toma el lock del dia antes de purgar. ran=false si otra replica ya lo tomo.
func (s *FeedbackCleanupService) RunDaily(ctx context.Context, now time.Time) (domain.PurgeReport, bool, error) {
	if !s.acquire(ctx, now) {
		s.logger.Info("feedback cleanup skipped, lock held by another instance")
		return domain.PurgeReport{}, false, nil
	}
	report, err := s.Run(ctx, now)
	return report, true, err
}

func (s *FeedbackCleanupService) acquire(ctx context.Context, now time.Time) bool {
	if s.lock == nil {
		return true
	}
	lockCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	key := s.prefix + now.UTC().Format("2006-01-02")
	ok, err := s.lock.SetNX(lockCtx, key, now.UTC().Format(time.RFC3339), s.lockTTL).Result()
	if err != nil {
		s.logger.Warn("cleanup lock unavailable, running anyway", zap.Error(err))
		return true
	}
	return ok
}
