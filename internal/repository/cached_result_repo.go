package repository

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"deepmirror/internal/domain"
)

// CachedResultRepository agrega un cache LRU de lectura delante de otro ResultRepository.
// Los resultados no cambian despues de creados, asi que el cache nunca se invalida.
// Las lecturas concurrentes del mismo id que no estan en cache comparten una sola consulta.
type CachedResultRepository struct {
	next          ResultRepository
	cache         *lru.Cache[string, domain.Result]
	group         singleflight.Group
	lookupTimeout time.Duration
}

const defaultLookupTimeout = 10 * time.Second

func NewCachedResultRepository(next ResultRepository, size int) (*CachedResultRepository, error) {
	if next == nil {
		return nil, fmt.Errorf("cached result repository: next repository is required")
	}
	cache, err := lru.New[string, domain.Result](size)
	if err != nil {
		return nil, fmt.Errorf("cached result repository: %w", err)
	}
	return &CachedResultRepository{next: next, cache: cache, lookupTimeout: defaultLookupTimeout}, nil
}

func (r *CachedResultRepository) Create(ctx context.Context, result domain.Result) error {
	if err := r.next.Create(ctx, result); err != nil {
		return err
	}
	r.cache.Add(result.ID, result)
	return nil
}

// GetByID comparte la consulta entre llamadas concurrentes. La consulta compartida no depende
// del contexto de quien la inicio; cada llamador solo deja de esperar cuando se cancela el suyo.
func (r *CachedResultRepository) GetByID(ctx context.Context, id string) (domain.Result, error) {
	if res, ok := r.cache.Get(id); ok {
		return res, nil
	}
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(id, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(shared, r.lookupTimeout)
		defer cancel()
		res, err := r.next.GetByID(lookupCtx, id)
		if err != nil {
			return domain.Result{}, err
		}
		r.cache.Add(id, res)
		return res, nil
	})
	select {
	case <-ctx.Done():
		return domain.Result{}, ctx.Err()
	case out := <-ch:
		if out.Err != nil {
			return domain.Result{}, out.Err
		}
		return out.Val.(domain.Result), nil
	}
}

// Len expone el tamaño actual del cache (util para tests y metricas).
func (r *CachedResultRepository) Len() int {
	return r.cache.Len()
}
