// Package config provides configuration management for the agentflow service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Cache backends.
const (
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds the complete application configuration.
type Config struct {
	Server         ServerConfig
	Log            LogConfig
	Cache          CacheConfig
	Redis          RedisConfig
	Database       DatabaseConfig
	CircuitBreaker CircuitBreakerConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port              string        `validate:"required,numeric"`
	RateLimit         int           `validate:"gte=0"`
	RateWindow        time.Duration `validate:"gt=0"`
	CORSOrigins       []string
	RequestTimeout    time.Duration `validate:"gt=0"`
	ShutdownTimeout   time.Duration `validate:"gt=0"`
	EnableIdempotency bool
	SwaggerUser       string
	SwaggerPass       string
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Pretty bool
}

// CacheConfig holds cache configuration.
type CacheConfig struct {
	// Backend selects the shared store behind the SWR tier.
	Backend string `validate:"oneof=redis mongo memory"`
	// Prefix is prepended to every namespace.
	Prefix string `validate:"required"`
	// DefaultTTL is the shared-store TTL and the upper bound of StaleAfter.
	DefaultTTL time.Duration `validate:"gt=0"`
	// StaleAfter is how long a record counts as fresh.
	StaleAfter time.Duration `validate:"gt=0,ltefield=DefaultTTL"`
	// StaleTTL is how long a stale record stays servable.
	StaleTTL time.Duration `validate:"gt=0"`
	// MemoryTTL bounds entries in the per-process front tier.
	MemoryTTL time.Duration `validate:"gt=0"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `validate:"required_if=Enabled true"`
	Password string
	DB       int `validate:"gte=0"`
	// Enabled is derived from the cache backend.
	Enabled bool
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string `validate:"required_if=Enabled true"`
	DatabaseName string `validate:"required_if=Enabled true"`
	Enabled      bool
}

// CircuitBreakerConfig configures every breaker the service creates.
type CircuitBreakerConfig struct {
	FailureThreshold int           `validate:"gt=0"`
	SuccessThreshold int           `validate:"gt=0"`
	Timeout          time.Duration `validate:"gt=0"`
}

// Load creates a Config from environment variables.
func Load() Config {
	backend := strings.ToLower(getEnv("CACHE_BACKEND", BackendRedis))
	defaultTTL := getEnvDuration("CACHE_DEFAULT_TTL", 5*time.Minute)

	return Config{
		Server: ServerConfig{
			Port:              getEnv("PORT", "8080"),
			RateLimit:         getEnvInt("RATE_LIMIT", 100),
			RateWindow:        getEnvDuration("RATE_WINDOW", time.Minute),
			CORSOrigins:       parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			EnableIdempotency: getEnvBool("IDEMPOTENCY_ENABLED", true),
			SwaggerUser:       getEnv("SWAGGER_USER", ""),
			SwaggerPass:       getEnv("SWAGGER_PASS", ""),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		Cache: CacheConfig{
			Backend:    backend,
			Prefix:     getEnv("CACHE_PREFIX", "agentflow"),
			DefaultTTL: defaultTTL,
			StaleAfter: getEnvDuration("CACHE_STALE_AFTER", time.Minute),
			StaleTTL:   getEnvDuration("CACHE_STALE_TTL", defaultTTL),
			MemoryTTL:  getEnvDuration("CACHE_MEMORY_TTL", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  backend == BackendRedis,
		},
		Database: DatabaseConfig{
			URI:          getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName: getEnv("MONGODB_DATABASE", "agentflow"),
			Enabled:      getEnvBool("MONGODB_ENABLED", backend == BackendMongo),
		},
		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 3),
			SuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 1),
			Timeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
	}
}

// ErrMongoBackendRequiresDatabase is returned when the mongo cache backend
// is selected with MongoDB disabled.
var ErrMongoBackendRequiresDatabase = errors.New("config: CACHE_BACKEND=mongo requires MONGODB_ENABLED")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration against its struct tags and the
// cross-section rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: invalid %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("config: %w", err)
	}
	if c.Cache.Backend == BackendMongo && !c.Database.Enabled {
		return ErrMongoBackendRequiresDatabase
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
