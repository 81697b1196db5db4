package app

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aiinterviewer/internal/cache"
	"aiinterviewer/internal/config"
	"aiinterviewer/internal/repository"
	"aiinterviewer/internal/service"
)

// App holds the wired stores and services of one process
type App struct {
	Config *config.Config

	Sessions  cache.SessionCache
	Responses repository.ResponseRepo
	Summaries repository.SummaryRepo
	Templates repository.TemplateRepo
	Archive   repository.SessionArchive

	Evaluator        *service.EvaluatorService
	AuthService      *service.AuthService
	TemplateService  *service.TemplateService
	SummaryService   *service.SummaryService
	InterviewService *service.InterviewService

	checks  map[string]func(context.Context) error
	closers []func(context.Context) error
}

// Stores groups the persistence ports; New fills it from the configured backend
type Stores struct {
	Sessions  cache.SessionCache
	Responses repository.ResponseRepo
	Summaries repository.SummaryRepo
	Templates repository.TemplateRepo
	Archive   repository.SessionArchive
}

// New connects the configured backend and wires the services on top of it
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, checks: map[string]func(context.Context) error{}}

	var (
		stores Stores
		err    error
	)
	switch cfg.Store.Backend {
	case config.StoreSQLite:
		stores, err = a.openSQLite(cfg)
	case config.StoreMongo:
		stores, err = a.openMongo(ctx, cfg)
	default:
		err = errors.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	a.Wire(stores, service.NewBackend(cfg.AI))
	log.Info().
		Str("store", cfg.Store.Backend).
		Str("judgment", a.Evaluator.Status()).
		Msg("app initialized")
	return a, nil
}

// NewWithStores wires the services over caller-provided stores
func NewWithStores(cfg *config.Config, stores Stores, backend service.Backend) *App {
	a := &App{Config: cfg, checks: map[string]func(context.Context) error{}}
	a.Wire(stores, backend)
	return a
}

// Wire builds the service graph over stores and backend
func (a *App) Wire(stores Stores, backend service.Backend) {
	cfg := a.Config
	a.Sessions = stores.Sessions
	a.Responses = stores.Responses
	a.Summaries = stores.Summaries
	a.Templates = stores.Templates
	a.Archive = stores.Archive

	a.Evaluator = service.NewEvaluatorService(backend, cfg.AI)
	a.AuthService = service.NewAuthService(cfg.Auth)
	a.TemplateService = service.NewTemplateService(stores.Templates, cfg.Policy, cfg.Store.Timeout)
	a.SummaryService = service.NewSummaryService(a.Evaluator, stores.Summaries, cfg.Store.Timeout)
	a.InterviewService = service.NewInterviewService(
		stores.Sessions,
		stores.Responses,
		stores.Archive,
		a.TemplateService,
		a.SummaryService,
		a.AuthService,
		a.Evaluator,
		cfg.Policy,
		cfg.Store.Timeout,
		rand.New(rand.NewSource(time.Now().UnixNano())),
	)
}

func (a *App) openSQLite(cfg *config.Config) (Stores, error) {
	store, err := repository.NewSQLiteStore(cfg.SQLite.Path, cfg.Redis.SessionTTL)
	if err != nil {
		return Stores{}, err
	}
	a.checks["sqlite"] = store.Ping
	a.closers = append(a.closers, func(context.Context) error { return store.Close() })
	log.Info().Str("path", cfg.SQLite.Path).Msg("opened sqlite store")
	return Stores{
		Sessions:  store,
		Responses: store,
		Summaries: store,
		Templates: store,
		Archive:   store,
	}, nil
}

func (a *App) openMongo(ctx context.Context, cfg *config.Config) (Stores, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return Stores{}, errors.Wrap(err, "connect mongodb")
	}
	a.closers = append(a.closers, mongoClient.Disconnect)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return Stores{}, errors.Wrap(err, "ping mongodb")
	}
	a.checks["mongodb"] = func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return Stores{}, errors.Wrap(err, "ping redis")
	}
	a.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	db := mongoClient.Database(cfg.Mongo.Database)
	return Stores{
		Sessions:  cache.NewSessionCache(rdb, cfg.Redis.SessionTTL),
		Responses: repository.NewResponseRepo(db),
		Summaries: repository.NewSummaryRepo(db),
		Templates: repository.NewTemplateRepo(db),
		Archive:   repository.NewSessionArchive(db),
	}, nil
}

// Health pings every store. ok is false when any of them failed.
func (a *App) Health(ctx context.Context) (status map[string]string, ok bool) {
	status = map[string]string{"judgment": "disabled"}
	if a.Evaluator != nil {
		status["judgment"] = a.Evaluator.Status()
	}
	ok = true
	for name, check := range a.checks {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := check(checkCtx)
		cancel()
		if err != nil {
			status[name] = "down: " + err.Error()
			ok = false
			continue
		}
		status[name] = "ok"
	}
	return status, ok
}

// Close releases connections in reverse order of opening
func (a *App) Close(ctx context.Context) error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
