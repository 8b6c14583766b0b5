// cmd/care-match/app.go
package main

import (
	"context"
	"fmt"
	"time"

	"carematch/internal/api"
	"carematch/internal/common/aws"
	"carematch/internal/common/config"
	"carematch/internal/common/database"
	"carematch/internal/common/errors"
	"carematch/internal/common/logger"
	"carematch/internal/common/metrics"
	"carematch/internal/common/observability"
	"carematch/internal/matching"
	"carematch/internal/providers"
	"carematch/internal/service"
)

// app holds everything a command needs once the backing services are up.
type app struct {
	cfg    *config.Config
	log    logger.Logger
	obs    *observability.Observability
	store  providers.Store
	checks []api.ReadinessCheck

	matcher  *service.MatchService
	registry *service.RegistrationService

	pg      *database.PostgresClient
	redis   *database.RedisClient
	es      *database.ElasticsearchClient
	indexed *providers.IndexedStore
	closers []func() error
}

func newLogger(cfg *config.Config) logger.Logger {
	return logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
}

// newEngine builds the ranking engine from config. Bad weights are fatal.
func newEngine(cfg *config.Config, log logger.Logger) (*matching.Engine, error) {
	var weights matching.Weights
	if len(cfg.Matching.Weights) > 0 {
		w, err := matching.ParseWeights(cfg.Matching.Weights)
		if err != nil {
			return nil, errors.NewConfigurationInvalidError(err)
		}
		weights = w
	}

	engine, err := matching.NewEngine(matching.Options{
		Weights:     weights,
		TopN:        cfg.Matching.TopN,
		Parallelism: cfg.Matching.Parallelism,
		Observer:    metrics.StageRecorder{},
	}, log)
	if err != nil {
		return nil, errors.NewConfigurationInvalidError(err)
	}
	return engine, nil
}

// bootstrap connects to every configured backend and assembles the services.
func bootstrap(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	obs, err := observability.New(cfg.Observability, nil)
	if err != nil {
		return nil, fmt.Errorf("observability: %w", err)
	}
	a.obs = obs

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	engine, err := newEngine(cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	var publisher service.EventPublisher
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("sns client: %w", err)
		}
		publisher = aws.NewProviderEventPublisher(snsClient, cfg.Integrations.AWS.SNS.TopicARN)
		log.Info("provider events publish to SNS", map[string]interface{}{"topicArn": cfg.Integrations.AWS.SNS.TopicARN})
	}

	a.matcher = service.NewMatchService(engine, a.store, obs, log)
	a.registry = service.NewRegistrationService(a.store, publisher, log).WithRecorder(obs)

	if cfg.Seed.Enabled {
		if _, err := providers.Seed(ctx, a.store, log); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

// openStore builds the provider store stack: postgres or memory at the
// bottom, then the Redis pool cache, then the Elasticsearch index.
func (a *app) openStore(ctx context.Context) error {
	cfg, log := a.cfg, a.log

	var store providers.Store
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store = providers.NewMemoryStore()
		log.Info("using in-memory provider store", nil)
	default:
		err := retryWithBackoff(func() error {
			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				pg.Close()
				return err
			}
			a.pg = pg
			return nil
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			return errors.NewDatabaseConnectionFailedError(err)
		}
		a.closers = append(a.closers, a.pg.Close)
		log.Info("PostgreSQL connected successfully", nil)
		store = providers.NewPostgresStore(a.pg.DB)
	}
	a.checks = append(a.checks, api.ReadinessCheck{Name: "store", Check: store.Ping})

	if cfg.Database.Redis.Enabled {
		a.redis = database.NewRedis(cfg.Database.Redis)
		err := retryWithBackoff(func() error {
			return a.redis.Ping(ctx)
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			a.redis.Close()
			return errors.NewDatabaseConnectionFailedError(err)
		}
		a.closers = append(a.closers, a.redis.Close)
		a.checks = append(a.checks, api.ReadinessCheck{Name: "redis", Check: a.redis.Ping})
		log.Info("Redis connected successfully", nil)
		store = providers.NewCachedStore(store, a.redis.Client, cfg.Cache.KeyPrefix,
			config.GetDuration(cfg.Cache.ProviderPoolTTL), log)
	}

	if cfg.Database.Elasticsearch.Enabled {
		err := retryWithBackoff(func() error {
			es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			if err := es.Ping(ctx); err != nil {
				return err
			}
			a.es = es
			return nil
		}, 15, 2*time.Second, log, "Elasticsearch connection")
		if err != nil {
			return errors.NewDatabaseConnectionFailedError(err)
		}
		if err := a.es.EnsureIndex(ctx, cfg.Database.Elasticsearch.Index, database.ProviderIndexMapping); err != nil {
			return err
		}
		a.checks = append(a.checks, api.ReadinessCheck{Name: "elasticsearch", Check: a.es.Ping})
		log.Info("Elasticsearch connected successfully", nil)
		a.indexed = providers.NewIndexedStore(store, a.es.Client, cfg.Database.Elasticsearch.Index, log)
		store = a.indexed
	}

	a.store = store
	return nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", map[string]interface{}{"error": err})
		}
	}
	a.closers = nil

	if a.obs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.obs.Shutdown(ctx); err != nil {
			a.log.Warn("observability shutdown failed", map[string]interface{}{"error": err})
		}
	}
}
