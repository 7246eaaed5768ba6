package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"deepmirror/internal/domain"
	"deepmirror/internal/repository"
)

type mockResultRepo struct {
	mu        sync.Mutex
	stored    map[string]domain.Result
	createErr error
	getErr    error
	creates   int
	lastCtx   context.Context
}

func newMockResultRepo() *mockResultRepo {
	return &mockResultRepo{stored: map[string]domain.Result{}}
}

func (m *mockResultRepo) Create(ctx context.Context, result domain.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	m.lastCtx = ctx
	if m.createErr != nil {
		return m.createErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.stored[result.ID] = result
	return nil
}

func (m *mockResultRepo) GetByID(ctx context.Context, id string) (domain.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return domain.Result{}, m.getErr
	}
	res, ok := m.stored[id]
	if !ok {
		return domain.Result{}, repository.ErrResultNotFound
	}
	return res, nil
}

type mockAnalysisProvider struct {
	text   string
	calls  int
	scores domain.TraitScores
}

func (m *mockAnalysisProvider) Generate(ctx context.Context, scores domain.TraitScores) string {
	m.calls++
	m.scores = scores
	return m.text
}

type mockFeedbackRepo struct {
	created   []domain.Feedback
	createErr error
	purgeErr  error
	purges    []time.Time
	report    domain.PurgeReport
}

func (m *mockFeedbackRepo) Create(ctx context.Context, feedback *domain.Feedback) error {
	if m.createErr != nil {
		return m.createErr
	}
	feedback.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *feedback)
	return nil
}

func (m *mockFeedbackRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.created)), nil
}

func (m *mockFeedbackRepo) PurgeCreatedBefore(ctx context.Context, cutoff time.Time) (domain.PurgeReport, error) {
	m.purges = append(m.purges, cutoff)
	if m.purgeErr != nil {
		return domain.PurgeReport{}, m.purgeErr
	}
	report := m.report
	report.Cutoff = cutoff
	return report, nil
}

type mockNotifier struct {
	messages []string
	err      error
}

func (m *mockNotifier) Notify(ctx context.Context, message string) error {
	m.messages = append(m.messages, message)
	return m.err
}

type mockRedisLocker struct {
	keys []string
	ttl  time.Duration
	ok   bool
	err  error
}

func (m *mockRedisLocker) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	m.keys = append(m.keys, key)
	m.ttl = expiration
	cmd := redis.NewBoolCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.ok)
	return cmd
}
