package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/agentflow/internal/cache"
	"github.com/guttosm/agentflow/internal/i18n"
	"github.com/guttosm/agentflow/internal/logger"
	"github.com/guttosm/agentflow/internal/service"
)

var (
	errUnknownNamespace       = errors.New("unknown cache namespace")
	errPatternRequired        = errors.New("pattern query parameter is required")
	errInvalidationIncomplete = errors.New("cache invalidation incomplete")
)

// CacheNamespace is an operator-visible cache namespace. Publisher may be nil.
type CacheNamespace struct {
	Cache     cache.PatternInvalidator
	Publisher service.Publisher
}

// CacheHandler serves operator cache endpoints under /api/cache.
type CacheHandler struct {
	namespaces map[string]CacheNamespace
}

// NewCacheHandler creates a CacheHandler over the given namespaces.
func NewCacheHandler(namespaces map[string]CacheNamespace) *CacheHandler {
	return &CacheHandler{namespaces: namespaces}
}

// RegisterRoutes registers the cache routes on rg.
func (h *CacheHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/cache/:namespace", h.Invalidate)
}

// Invalidate handles DELETE /api/cache/:namespace?pattern=. Matching keys
// are dropped locally and the pattern is published to other instances.
func (h *CacheHandler) Invalidate(c *gin.Context) {
	builder := NewResponseBuilder(c)
	name := c.Param("namespace")
	ns, ok := h.namespaces[name]
	if !ok {
		builder.Error(http.StatusNotFound, i18n.ErrKeyUnknownNamespace, errUnknownNamespace)
		return
	}
	pattern := c.Query("pattern")
	if pattern == "" {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyPatternRequired, errPatternRequired)
		return
	}

	ctx := c.Request.Context()
	log := logger.Component("cache-admin")
	if !ns.Cache.InvalidatePattern(ctx, pattern) {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyUnavailable, errInvalidationIncomplete)
		return
	}
	if ns.Publisher != nil {
		if err := ns.Publisher.PublishPattern(ctx, pattern); err != nil {
			log.Warn().Err(err).Str("namespace", name).Str("pattern", pattern).Msg("Cache invalidation not published")
		}
	}

	log.Info().Str("namespace", name).Str("pattern", pattern).Msg("Cache invalidated")
	builder.Message(i18n.SuccessKeyCacheInvalidated)
}
