package app

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/agentflow/config"
	"github.com/guttosm/agentflow/internal/cache"
	"github.com/guttosm/agentflow/internal/http"
)

// InitializeRouter creates the handlers, registers health checks for every
// dependency and breaker, and builds the gin engine.
func InitializeRouter(
	cfg config.Config,
	services *ServiceComponents,
	db *DatabaseComponents,
	stores *StoreComponents,
	caches []*NamespaceCache,
	idempotency cache.Tier,
) *gin.Engine {
	healthHandler := http.NewHealthHandler()
	healthHandler.RegisterChecker("cache_store", http.HealthCheckFunc(stores.Store.Ping))
	healthHandler.RegisterCircuitBreaker(stores.Breaker)
	if db != nil {
		healthHandler.RegisterChecker("mongodb", http.HealthCheckFunc(db.DB.HealthCheck))
		healthHandler.RegisterCircuitBreaker(db.WorkflowsBreaker)
		healthHandler.RegisterCircuitBreaker(db.AgentsBreaker)
	}

	namespaces := make(map[string]http.CacheNamespace, len(caches))
	for _, nc := range caches {
		healthHandler.RegisterCircuitBreaker(nc.Breaker())
		namespaces[nc.Name] = http.CacheNamespace{
			Cache:     nc.Tiered,
			Publisher: nc.Publisher(),
		}
	}

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		CORSOrigins:       cfg.Server.CORSOrigins,
		RequestTimeout:    cfg.Server.RequestTimeout,
		EnableIdempotency: cfg.Server.EnableIdempotency,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		IdempotencyStore:  idempotency,
	}

	return http.NewRouter(healthHandler, routerCfg,
		http.NewWorkflowHandler(services.Workflows),
		http.NewAgentHandler(services.Agents),
		http.NewCacheHandler(namespaces),
	)
}
