//go:build !integration

package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystem(t *testing.T) {
	before := time.Now()
	got := System().Now()
	assert.False(t, got.Before(before))
}

func TestOrSystem(t *testing.T) {
	assert.Equal(t, System(), OrSystem(nil))

	m := NewManual(time.Unix(0, 0))
	assert.Same(t, m, OrSystem(m))
}

func TestManual(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManual(start)
	assert.Equal(t, start, m.Now())

	m.Advance(301 * time.Second)
	assert.Equal(t, start.Add(301*time.Second), m.Now())

	m.Set(start)
	assert.Equal(t, start, m.Now())
}

func TestManual_ConcurrentAdvance(t *testing.T) {
	m := NewManual(time.Unix(0, 0))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Advance(time.Second)
			_ = m.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, time.Unix(50, 0), m.Now())
}
