// Package app wires configuration into the running service.
package app

import (
	"errors"
	"fmt"

	"github.com/guttosm/agentflow/config"
	"github.com/guttosm/agentflow/internal/circuitbreaker"
	"github.com/guttosm/agentflow/internal/repository"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB               *repository.MongoDB
	Workflows        repository.WorkflowRepositoryInterface
	Agents           repository.AgentRepositoryInterface
	WorkflowsBreaker *circuitbreaker.CircuitBreaker
	AgentsBreaker    *circuitbreaker.CircuitBreaker
}

// newBreaker creates a breaker from the shared breaker settings.
func newBreaker(cfg config.CircuitBreakerConfig, name string, isFailure func(error) bool) (*circuitbreaker.CircuitBreaker, error) {
	cbCfg := circuitbreaker.Config{
		FailureThreshold: cfg.FailureThreshold,
		SuccessThreshold: cfg.SuccessThreshold,
		Timeout:          cfg.Timeout,
		Name:             name,
		IsFailure:        isFailure,
	}
	if err := cbCfg.Validate(); err != nil {
		return nil, fmt.Errorf("circuit breaker %s: %w", name, err)
	}
	return circuitbreaker.New(cbCfg), nil
}

// notFoundIsSuccess keeps lookups of missing records from tripping a breaker.
func notFoundIsSuccess(err error) bool {
	return !errors.Is(err, repository.ErrNotFound)
}

// InitializeDatabase connects to MongoDB and creates the guarded
// repositories. It returns nil components when the database is disabled.
func InitializeDatabase(cfg config.Config) (*DatabaseComponents, error) {
	if !cfg.Database.Enabled {
		return nil, nil
	}

	workflowsCB, err := newBreaker(cfg.CircuitBreaker, "mongodb-workflows", notFoundIsSuccess)
	if err != nil {
		return nil, err
	}
	agentsCB, err := newBreaker(cfg.CircuitBreaker, "mongodb-agents", notFoundIsSuccess)
	if err != nil {
		return nil, err
	}

	db, err := repository.NewMongoDB(cfg.Database.URI, cfg.Database.DatabaseName)
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Database.DatabaseName).Msg("Connected to MongoDB")

	return &DatabaseComponents{
		DB:               db,
		Workflows:        repository.NewWorkflowRepositoryWithCircuitBreaker(repository.NewWorkflowRepository(db), workflowsCB),
		Agents:           repository.NewAgentRepositoryWithCircuitBreaker(repository.NewAgentRepository(db), agentsCB),
		WorkflowsBreaker: workflowsCB,
		AgentsBreaker:    agentsCB,
	}, nil
}
