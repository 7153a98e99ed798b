package telemetry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter_CreateOrFetch(t *testing.T) {
	r := NewRegistry()
	a := r.Counter("outcomes.received")
	a.Inc()
	b := r.Counter("outcomes.received")
	b.Add(2)

	assert.Same(t, a, b)
	assert.Equal(t, int64(3), r.Counter("outcomes.received").Value())
}

func TestSnapshotAndNames(t *testing.T) {
	r := NewRegistry()
	r.Counter("b").Inc()
	r.Counter("a").Add(5)

	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.Equal(t, map[string]int64{"a": 5, "b": 1}, r.Snapshot())
}

func TestReset(t *testing.T) {
	r := NewRegistry()
	old := r.Counter("x")
	old.Add(4)

	r.Reset()

	assert.Empty(t, r.Snapshot())
	fresh := r.Counter("x")
	assert.NotSame(t, old, fresh)
	assert.Equal(t, int64(0), fresh.Value())
	assert.Equal(t, int64(4), old.Value())
}

func TestCounter_ConcurrentIncrements(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Counter("hits").Inc()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(800), r.Counter("hits").Value())
}
