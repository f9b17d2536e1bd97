//go:build !integration

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/agentflow/internal/clock"
	"github.com/guttosm/agentflow/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type agentRecord struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
}

func TestTyped_SetAsGetAs(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(Options{Prefix: "agents"})
	jc := codec.JSON[agentRecord]()

	require.True(t, SetAs(ctx, c, "1", agentRecord{ID: "1", Owner: "alice"}, jc, 0))
	got, ok := GetAs(ctx, c, "1", jc)
	require.True(t, ok)
	assert.Equal(t, agentRecord{ID: "1", Owner: "alice"}, got)
}

func TestTyped_DecodeFailureIsMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(Options{})
	c.Set(ctx, "1", []byte("{broken"), 0)

	_, ok := GetAs(ctx, c, "1", codec.JSON[agentRecord]())
	assert.False(t, ok)
}

func TestTyped_GetOrSetAs(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager("agents", nil)
	jc := codec.JSON[agentRecord]()

	calls := 0
	fetch := func(context.Context) (agentRecord, error) {
		calls++
		return agentRecord{ID: "7", Owner: "bob"}, nil
	}

	for i := 0; i < 2; i++ {
		got, err := GetOrSetAs(ctx, m, "7", jc, fetch, 0)
		require.NoError(t, err)
		assert.Equal(t, "bob", got.Owner)
	}
	assert.Equal(t, 1, calls)

	fetchErr := errors.New("not found")
	_, err := GetOrSetAs(ctx, m, "8", jc, func(context.Context) (agentRecord, error) {
		return agentRecord{}, fetchErr
	}, 0)
	assert.ErrorIs(t, err, fetchErr)
}

func TestTyped_GetWithSWRAs(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(epoch)
	e, _ := newTestEnhanced(t, clk, time.Minute)
	jc := codec.JSON[agentRecord]()

	got, err := GetWithSWRAs(ctx, e, "1", jc, func(context.Context) (agentRecord, error) {
		return agentRecord{ID: "1", Owner: "alice"}, nil
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Owner)

	fetchErr := errors.New("boom")
	_, err = GetWithSWRAs(ctx, e, "2", jc, func(context.Context) (agentRecord, error) {
		return agentRecord{}, fetchErr
	}, 0)
	assert.ErrorIs(t, err, fetchErr)
}
