// Package circuitbreaker provides circuit breaker pattern implementation for resilience.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/guttosm/agentflow/internal/clock"
	"github.com/guttosm/agentflow/internal/metrics"
	"github.com/rs/zerolog/log"
)

var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrInvalidConfig indicates a circuit breaker configuration that cannot be used.
	ErrInvalidConfig = errors.New("invalid circuit breaker config")
)

// State represents the state of the circuit breaker.
type State int

const (
	// StateClosed means the circuit is closed and requests pass through normally.
	StateClosed State = iota
	// StateOpen means the circuit is open and requests are rejected immediately.
	StateOpen
	// StateHalfOpen means the circuit is half-open, allowing a probe request.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config holds circuit breaker configuration.
type Config struct {
	// FailureThreshold is the number of consecutive failures before opening the circuit.
	FailureThreshold int
	// SuccessThreshold is the number of consecutive probe successes needed to close the circuit.
	SuccessThreshold int
	// Timeout is the duration to wait after the last failure before probing again.
	Timeout time.Duration
	// Name is the name of the circuit breaker (for logging and metrics).
	Name string
	// Clock is the time source. Defaults to the system clock.
	Clock clock.Clock
	// IsFailure classifies errors returned by the protected operation.
	// Errors it rejects are returned to the caller but count as successes.
	// Defaults to treating every non-nil error as a failure.
	// context.Canceled never counts as a failure.
	IsFailure func(error) bool
}

// DefaultConfig returns a default circuit breaker configuration.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		Timeout:          30 * time.Second,
		Name:             "circuit-breaker",
	}
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	if c.FailureThreshold <= 0 || c.Timeout <= 0 || c.SuccessThreshold < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// CircuitBreaker implements the circuit breaker pattern.
//
// A probe failure while half-open reopens the circuit immediately; the
// failure count is reset when the probe window opens, so the next full
// threshold applies only after the circuit has closed again.
type CircuitBreaker struct {
	config          Config
	clock           clock.Clock
	state           State
	failureCount    int
	successCount    int
	lastFailureTime time.Time
	mu              sync.RWMutex
}

// New creates a new circuit breaker with the given configuration.
// Zero-valued fields fall back to DefaultConfig.
func New(config Config) *CircuitBreaker {
	defaults := DefaultConfig()
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = defaults.SuccessThreshold
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Name == "" {
		config.Name = defaults.Name
	}
	cb := &CircuitBreaker{
		config: config,
		clock:  clock.OrSystem(config.Clock),
		state:  StateClosed,
	}
	metrics.RecordCircuitBreakerState(config.Name, int(StateClosed))
	return cb
}

// Name returns the configured name of the breaker.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// Execute executes a function with circuit breaker protection.
// Returns ErrCircuitOpen if the circuit is open.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	return cb.ExecuteWithFallback(ctx, fn, nil)
}

// ExecuteWithFallback executes fn with circuit breaker protection. When the
// circuit is open, or fn fails, fallback is invoked with the triggering error
// and its result is returned instead. A nil fallback behaves like Execute.
func (cb *CircuitBreaker) ExecuteWithFallback(
	ctx context.Context,
	fn func(context.Context) error,
	fallback func(context.Context, error) error,
) error {
	if !cb.allow() {
		if fallback != nil {
			return fallback(ctx, ErrCircuitOpen)
		}
		return ErrCircuitOpen
	}

	err := fn(ctx)
	failed := err != nil && cb.isFailure(err)

	cb.mu.Lock()
	if failed {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}
	cb.mu.Unlock()

	if failed && fallback != nil {
		return fallback(ctx, err)
	}
	return err
}

// isFailure classifies err. A caller giving up is never held against the
// protected dependency.
func (cb *CircuitBreaker) isFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if cb.config.IsFailure == nil {
		return true
	}
	return cb.config.IsFailure(err)
}

// Call runs a value-returning operation through cb. fallback may be nil.
func Call[T any](
	ctx context.Context,
	cb *CircuitBreaker,
	fn func(context.Context) (T, error),
	fallback func(context.Context, error) (T, error),
) (T, error) {
	var result T
	run := func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	}
	if fallback == nil {
		err := cb.Execute(ctx, run)
		return result, err
	}
	err := cb.ExecuteWithFallback(ctx, run, func(ctx context.Context, cause error) error {
		v, ferr := fallback(ctx, cause)
		result = v
		return ferr
	})
	return result, err
}

// allow decides whether a call may proceed, moving an expired open circuit
// to half-open.
func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return true
	}
	if cb.clock.Now().Sub(cb.lastFailureTime) < cb.config.Timeout {
		return false
	}
	cb.failureCount = 0
	cb.successCount = 0
	cb.setState(StateHalfOpen)
	log.Info().
		Str("circuit_breaker", cb.config.Name).
		Msg("Circuit breaker transitioning to half-open")
	return true
}

// onFailure handles a failure. Must be called under lock.
func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++
	cb.lastFailureTime = cb.clock.Now()

	switch cb.state {
	case StateClosed:
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.setState(StateOpen)
			log.Warn().
				Str("circuit_breaker", cb.config.Name).
				Int("failure_count", cb.failureCount).
				Msg("Circuit breaker opened due to failures")
		}
	case StateHalfOpen:
		cb.successCount = 0
		cb.setState(StateOpen)
		log.Warn().
			Str("circuit_breaker", cb.config.Name).
			Msg("Circuit breaker reopened after half-open failure")
	}
}

// onSuccess handles a success. Must be called under lock.
func (cb *CircuitBreaker) onSuccess() {
	cb.failureCount = 0

	switch cb.state {
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.successCount = 0
			cb.setState(StateClosed)
			log.Info().
				Str("circuit_breaker", cb.config.Name).
				Msg("Circuit breaker closed after successful recovery")
		}
	case StateClosed:
		cb.successCount = 0
	}
}

// setState records a transition. Must be called under lock.
func (cb *CircuitBreaker) setState(s State) {
	cb.state = s
	metrics.RecordCircuitBreakerState(cb.config.Name, int(s))
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// IsOpen returns true if the circuit breaker is open.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state == StateOpen
}

// Stats returns circuit breaker statistics.
type Stats struct {
	State        string
	FailureCount int
	SuccessCount int
	LastFailure  time.Time
	IsHealthy    bool
}

// GetStats returns current circuit breaker statistics.
func (cb *CircuitBreaker) GetStats() Stats {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return Stats{
		State:        cb.state.String(),
		FailureCount: cb.failureCount,
		SuccessCount: cb.successCount,
		LastFailure:  cb.lastFailureTime,
		IsHealthy:    cb.state == StateClosed,
	}
}
