package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/agentflow/config"
	"github.com/rs/zerolog/log"
)

// App is the assembled service and the resources it must release.
type App struct {
	Router   *gin.Engine
	Services *ServiceComponents
	Caches   []*NamespaceCache

	db     *DatabaseComponents
	stores *StoreComponents
	cancel context.CancelFunc
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context, cfg config.Config) (*App, error) {
	InitializeLogger(cfg.Log)

	db, err := InitializeDatabase(cfg)
	if err != nil {
		if cfg.Cache.Backend == config.BackendMongo {
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		db = nil
	}

	stores, err := InitializeStore(ctx, cfg, db)
	if err != nil {
		closeDatabase(ctx, db)
		return nil, fmt.Errorf("initialize cache store: %w", err)
	}

	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	var caches []*NamespaceCache
	for _, ns := range []string{NamespaceWorkflows, NamespaceAgents} {
		nc, err := newNamespaceCache(bg, cfg, stores, ns)
		if err != nil {
			for _, started := range caches {
				_ = started.Close(ctx)
			}
			cancel()
			_ = stores.Store.Close()
			closeDatabase(ctx, db)
			return nil, fmt.Errorf("initialize %s cache: %w", ns, err)
		}
		caches = append(caches, nc)
	}
	workflows, agents := caches[0], caches[1]

	services := InitializeServices(db, workflows, agents)
	router := InitializeRouter(cfg, services, db, stores, caches, newIdempotencyStore(cfg, stores))

	return &App{
		Router:   router,
		Services: services,
		Caches:   caches,
		db:       db,
		stores:   stores,
		cancel:   cancel,
	}, nil
}

// Close waits for background revalidations, stops invalidation
// subscriptions and closes the store and the database.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for _, nc := range a.Caches {
		errs = append(errs, nc.Close(ctx))
	}
	a.cancel()
	errs = append(errs, a.stores.Store.Close())
	if a.db != nil {
		errs = append(errs, a.db.DB.Close(ctx))
	}
	return errors.Join(errs...)
}

func closeDatabase(ctx context.Context, db *DatabaseComponents) {
	if db == nil {
		return
	}
	if err := db.DB.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to close MongoDB")
	}
}
