package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"deepmirror/internal/config"
	"deepmirror/internal/db"
)

// Store agrupa los repositorios del driver configurado y su ciclo de vida.
type Store struct {
	Results  ResultRepository
	Feedback FeedbackRepository

	ping    func(ctx context.Context) error
	migrate func(ctx context.Context) error
	close   func()
}

// OpenStore abre Postgres o SQLite segun STORE_DRIVER. cacheSize > 0 envuelve los resultados con un LRU.
func OpenStore(ctx context.Context, cfg *config.Config, cacheSize int, logger *zap.Logger) (*Store, error) {
	var s *Store
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s = &Store{
			Results:  NewPgResultRepository(pool),
			Feedback: NewPgFeedbackRepository(pool),
			ping:     func(ctx context.Context) error { return db.Ping(ctx, pool) },
			migrate:  func(ctx context.Context) error { return db.Migrate(ctx, pool) },
			close:    pool.Close,
		}
	case config.StoreDriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		s = &Store{
			Results:  NewSQLiteResultRepository(conn),
			Feedback: NewSQLiteFeedbackRepository(conn),
			ping:     conn.PingContext,
			migrate:  func(ctx context.Context) error { return db.MigrateSQLite(ctx, conn) },
			close:    func() { _ = conn.Close() },
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cacheSize > 0 {
		cached, err := NewCachedResultRepository(s.Results, cacheSize)
		if err != nil {
			s.close()
			return nil, err
		}
		s.Results = cached
	}
	if logger != nil {
		logger.Info("store opened", zap.String("driver", cfg.StoreDriver), zap.Int("result_cache", cacheSize))
	}
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error    { return s.ping(ctx) }
func (s *Store) Migrate(ctx context.Context) error { return s.migrate(ctx) }
func (s *Store) Close()                            { s.close() }
