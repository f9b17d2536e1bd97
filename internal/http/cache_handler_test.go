//go:build !integration

package http

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/guttosm/agentflow/internal/cache"
	"github.com/guttosm/agentflow/internal/clock"
	"github.com/guttosm/agentflow/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type failingInvalidator struct{}

func (failingInvalidator) InvalidatePattern(context.Context, string) bool { return false }

func TestCacheHandler_Invalidate(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	workflows := cache.NewMemory(cache.Options{Prefix: "workflows", Clock: clk})
	workflows.Set(ctx, "list:alice", []byte(`[]`), 0)
	workflows.Set(ctx, "list:alice:active", []byte(`[]`), 0)
	workflows.Set(ctx, "42", []byte(`{}`), 0)

	publisher := new(mocks.MockPublisher)
	publisher.On("PublishPattern", mock.Anything, "list:alice*").Return(errors.New("redis down"))

	router := newTestRouter(NewCacheHandler(map[string]CacheNamespace{
		"workflows": {Cache: workflows, Publisher: publisher},
		"broken":    {Cache: failingInvalidator{}},
	}))

	w := do(router, http.MethodDelete, "/api/cache/workflows?pattern=list:alice*", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cache invalidated")
	assert.Equal(t, 1, workflows.Len())
	publisher.AssertExpectations(t)

	w = do(router, http.MethodDelete, "/api/cache/agents?pattern=*", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodDelete, "/api/cache/workflows", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodDelete, "/api/cache/broken?pattern=*", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
