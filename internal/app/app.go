// Package app wires the configured backend, memo store, dashboards and
// periodization sheets together. Both the HTTP service and the CLI start here.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/2beens/gymsheets/internal/config"
	"github.com/2beens/gymsheets/internal/dashboards"
	"github.com/2beens/gymsheets/internal/db"
	"github.com/2beens/gymsheets/internal/kvstore"
	"github.com/2beens/gymsheets/internal/periodization"
	"github.com/2beens/gymsheets/internal/tabular"
	"github.com/2beens/gymsheets/internal/tabular/gsheets"
	"github.com/2beens/gymsheets/internal/tabular/xlsx"
	"github.com/2beens/gymsheets/internal/telemetry/metrics"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const metricsNamespace = "gymsheets"

type Params struct {
	Config *config.Config
	// Subsystem labels the prometheus metrics, e.g. "service" or "cli".
	Subsystem             string
	GoogleCredentialsFile string
	RedisPassword         string
	PostgresPassword      string
	TracingEnabled        bool
	// Backend overrides Config.Backend, used by tests and CLI dry runs.
	Backend tabular.Backend
}

type App struct {
	Config          *config.Config
	MetricsRegistry *prometheus.Registry
	Metrics         *metrics.Manager
	IO              *tabular.IO
	Dashboards      *dashboards.Registry
	Periodizations  *periodization.Registry
	// RedisClient is nil when neither the memo store nor rate limiting need redis.
	RedisClient *redis.Client
	DBPool      *pgxpool.Pool
	// Workbook is set for the xlsx backend.
	Workbook *xlsx.Backend

	closers []func() error
}

func New(ctx context.Context, params Params) (_ *App, err error) {
	cfg := params.Config
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			if closeErr := a.Close(); closeErr != nil {
				log.Errorf("close partially built app: %s", closeErr)
			}
		}
	}()

	var collectors []prometheus.Collector
	if cfg.Memo.Kind == config.MemoPostgres {
		a.DBPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.TracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		a.closers = append(a.closers, func() error {
			a.DBPool.Close()
			return nil
		})
		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			a.DBPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}

	subsystem := params.Subsystem
	if subsystem == "" {
		subsystem = "service"
	}
	a.MetricsRegistry = metrics.SetupPrometheus(collectors...)
	a.Metrics = metrics.NewManager(metricsNamespace, subsystem, a.MetricsRegistry)

	if err := a.setupRedis(ctx, params); err != nil {
		return nil, err
	}

	store, err := a.memoStore(ctx)
	if err != nil {
		return nil, err
	}

	backend := params.Backend
	if backend == nil {
		if backend, err = a.openBackend(ctx, params); err != nil {
			return nil, err
		}
	}
	if a.IO, err = tabular.NewIO(backend); err != nil {
		return nil, err
	}

	defs, err := DashboardDefinitions(cfg.Dashboards)
	if err != nil {
		return nil, err
	}
	if a.Dashboards, err = dashboards.NewRegistry(defs, a.IO, a.Metrics); err != nil {
		return nil, err
	}

	layouts, err := PeriodizationLayouts(cfg.Periodizations)
	if err != nil {
		return nil, err
	}
	if a.Periodizations, err = periodization.NewRegistry(layouts, a.IO, store, a.Metrics); err != nil {
		return nil, err
	}

	log.Debugf("app ready: backend=%s memo=%s dashboards=%d periodizations=%d",
		cfg.Backend.Kind, cfg.Memo.Kind, len(defs), len(layouts))
	return a, nil
}

func (a *App) setupRedis(ctx context.Context, params Params) error {
	cfg := a.Config
	memoNeedsRedis := cfg.Memo.Kind == config.MemoRedis
	if !memoNeedsRedis && cfg.EditRateLimitAllowedPerMin <= 0 {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.TracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		if memoNeedsRedis {
			_ = rdb.Close()
			return fmt.Errorf("ping redis: %w", err)
		}
		// rate limiting only, run without it
		log.Warnf("failed to ping redis, edit rate limiting disabled: %s", err)
		_ = rdb.Close()
		return nil
	}
	log.Debugf("redis ping: %s", rdbStatus.Val())

	a.RedisClient = rdb
	a.closers = append(a.closers, rdb.Close)
	return nil
}

func (a *App) memoStore(ctx context.Context) (kvstore.Store, error) {
	cfg := a.Config
	switch cfg.Memo.Kind {
	case config.MemoRedis:
		prefix := cfg.Memo.KeyPrefix
		if prefix != "" {
			prefix += "::"
		}
		return kvstore.NewRedisStore(a.RedisClient, prefix), nil
	case config.MemoPostgres:
		if err := a.DBPool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("ping db: %w", err)
		}
		store := kvstore.NewPostgresStore(a.DBPool)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		size := cfg.Memo.MemorySizeBytes
		if size <= 0 {
			size = kvstore.DefaultMemorySize
		}
		return kvstore.NewMemoryStore(size), nil
	}
}

func (a *App) openBackend(ctx context.Context, params Params) (tabular.Backend, error) {
	cfg := a.Config.Backend
	switch cfg.Kind {
	case config.BackendXlsx:
		workbook, err := xlsx.Open(cfg.XlsxPath)
		if err != nil {
			return nil, err
		}
		a.Workbook = workbook
		a.closers = append(a.closers, workbook.Close)
		return workbook, nil
	case config.BackendGSheets:
		if params.GoogleCredentialsFile == "" {
			return nil, errors.New("google credentials file not set")
		}
		credentials, err := os.ReadFile(params.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read google credentials: %w", err)
		}
		service, err := gsheets.NewService(ctx, credentials)
		if err != nil {
			return nil, err
		}
		return gsheets.New(service, cfg.SpreadsheetID), nil
	default:
		return tabular.NewMemoryGrid(cfg.Sheets...), nil
	}
}

// Close releases every connection the app opened, in reverse order.
func (a *App) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	a.closers = nil
	return err
}
