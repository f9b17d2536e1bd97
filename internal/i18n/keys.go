// Package i18n provides internationalization support for the agentflow service.
package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyConflict indicates a conflict with current state.
	ErrKeyConflict = "error.conflict"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
	// ErrKeyUnavailable indicates a dependency is failing fast behind an open circuit.
	ErrKeyUnavailable = "error.service_unavailable"
	// ErrKeyOwnerRequired indicates a missing owner.
	ErrKeyOwnerRequired = "error.validation.owner_required"
	// ErrKeyUnknownNamespace indicates a cache namespace that is not configured.
	ErrKeyUnknownNamespace = "error.unknown_namespace"
	// ErrKeyPatternRequired indicates a missing invalidation pattern.
	ErrKeyPatternRequired = "error.validation.pattern_required"
)

// Success message translation keys.
const (
	// SuccessKeyDeleted indicates a record was deleted.
	SuccessKeyDeleted = "success.deleted"
	// SuccessKeyCacheInvalidated indicates cache keys were invalidated.
	SuccessKeyCacheInvalidated = "success.cache_invalidated"
)
