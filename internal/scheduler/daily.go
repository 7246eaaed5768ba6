package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Job recibe el instante en que se disparo.
type Job func(ctx context.Context, now time.Time) error

// Daily corre un Job todos los dias a la hora local indicada.
type Daily struct {
	name     string
	hour     int
	minute   int
	job      Job
	logger   *zap.Logger
	now      func() time.Time
	newTimer func(d time.Duration) (<-chan time.Time, func() bool)
}

func NewDaily(name string, hour, minute int, job Job, logger *zap.Logger) (*Daily, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("invalid schedule %02d:%02d", hour, minute)
	}
	if job == nil {
		return nil, fmt.Errorf("job is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Daily{
		name:   name,
		hour:   hour,
		minute: minute,
		job:    job,
		logger: logger,
		now:    time.Now,
		newTimer: func(d time.Duration) (<-chan time.Time, func() bool) {
			t := time.NewTimer(d)
			return t.C, t.Stop
		},
	}, nil
}

// Run bloquea hasta que se cancela el contexto. Los errores del job solo se loguean.
func (d *Daily) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := d.now()
		next := NextRun(now, d.hour, d.minute)
		d.logger.Info("job scheduled", zap.String("job", d.name), zap.Time("next_run", next))

		fired, stop := d.newTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			stop()
			return ctx.Err()
		case at := <-fired:
			d.runOnce(ctx, at)
		}
	}
}

func (d *Daily) runOnce(ctx context.Context, at time.Time) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("job panicked", zap.String("job", d.name), zap.Any("panic", r))
		}
	}()

	start := time.Now()
	if err := d.job(ctx, at); err != nil {
		d.logger.Error("job failed", zap.String("job", d.name), zap.Error(err))
		return
	}
	d.logger.Info("job finished", zap.String("job", d.name), zap.Duration("elapsed", time.Since(start)))
}

// NextRun devuelve el proximo hour:minute estrictamente posterior a now, en la zona de now.
func NextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
	}
	return next
}
