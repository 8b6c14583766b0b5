// internal/providers/cached.go
package providers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"carematch/internal/common/logger"
	"carematch/internal/common/metrics"
	"carematch/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	poolKey = "pool:v1"
	genKey  = "pool:gen"
)

var errStaleGeneration = stderrors.New("provider pool generation changed")

// CachedStore keeps the full candidate pool in Redis and filters it locally.
// Any write through the store bumps the pool generation and drops the cached
// pool. A pool loaded under an older generation is never written back.
// Redis failures degrade to the wrapped store.
type CachedStore struct {
	Store
	redis  *redis.Client
	key    string
	gen    string
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedStore(inner Store, client *redis.Client, keyPrefix string, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{
		Store:  inner,
		redis:  client,
		key:    keyPrefix + poolKey,
		gen:    keyPrefix + genKey,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "provider-cache"}),
	}
}

func (s *CachedStore) GetCandidateProviders(ctx context.Context, q CandidateQuery) ([]models.ProviderProfile, error) {
	pool, ok := s.cachedPool(ctx)
	if !ok {
		gen, genErr := s.generation(ctx)

		var err error
		pool, err = s.Store.GetCandidateProviders(ctx, CandidateQuery{})
		if err != nil {
			return nil, err
		}
		if genErr == nil {
			s.storePool(ctx, gen, pool)
		}
	}
	return q.Filter(pool), nil
}

func (s *CachedStore) CreateProvider(ctx context.Context, p models.ProviderProfile) (models.ProviderProfile, error) {
	created, err := s.Store.CreateProvider(ctx, p)
	if err != nil {
		return models.ProviderProfile{}, err
	}
	s.Invalidate(ctx)
	return created, nil
}

// Invalidate bumps the pool generation and drops the cached pool.
func (s *CachedStore) Invalidate(ctx context.Context) {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, s.gen)
		pipe.Del(ctx, s.key)
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to invalidate provider pool", map[string]interface{}{"error": err})
	}
}

func (s *CachedStore) generation(ctx context.Context) (int64, error) {
	gen, err := s.redis.Get(ctx, s.gen).Int64()
	if stderrors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		s.logger.Warn("provider pool generation read failed", map[string]interface{}{"error": err})
		return 0, err
	}
	return gen, nil
}

func (s *CachedStore) cachedPool(ctx context.Context) ([]models.ProviderProfile, bool) {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		metrics.ProviderPoolCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.ProviderPoolCache.WithLabelValues("error").Inc()
		s.logger.Warn("provider pool cache read failed", map[string]interface{}{"error": err})
		return nil, false
	}

	var pool []models.ProviderProfile
	if err := json.Unmarshal(data, &pool); err != nil {
		metrics.ProviderPoolCache.WithLabelValues("error").Inc()
		s.logger.Warn("provider pool cache entry is corrupt", map[string]interface{}{"error": err})
		return nil, false
	}
	metrics.ProviderPoolCache.WithLabelValues("hit").Inc()
	return pool, true
}

// storePool writes the pool only while the generation still equals gen.
func (s *CachedStore) storePool(ctx context.Context, gen int64, pool []models.ProviderProfile) {
	data, err := json.Marshal(pool)
	if err != nil {
		s.logger.Warn("failed to encode provider pool", map[string]interface{}{"error": err})
		return
	}

	err = s.redis.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, s.gen).Int64()
		if err != nil && !stderrors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, s.ttl)
			return nil
		})
		return err
	}, s.gen)

	switch {
	case err == nil:
	case stderrors.Is(err, errStaleGeneration), stderrors.Is(err, redis.TxFailedErr):
		s.logger.Debug("skipped caching stale provider pool", map[string]interface{}{"generation": gen})
	default:
		s.logger.Warn("provider pool cache write failed", map[string]interface{}{"error": err})
	}
}
