package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/gom/pkg/gom/observability"
)

// fakeMetrics counts what the store reports.
type fakeMetrics struct {
	mu    sync.Mutex
	ops   map[string]int
	slots int64
	holds int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{ops: make(map[string]int)}
}

func (m *fakeMetrics) RecordOperation(_ context.Context, op, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops[op+"/"+outcome]++
}

func (m *fakeMetrics) RecordSlots(_ context.Context, delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots += delta
}

func (m *fakeMetrics) RecordLockHold(_ context.Context, _ string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holds++
}

func (m *fakeMetrics) count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ops[key]
}

func TestExistsIsTypeIndependent(t *testing.T) {
	s := New()
	require.NoError(t, Register(s, "k", struct{}{}))
	assert.True(t, s.Exists("k"))
	assert.False(t, s.Exists("K"))
}

func TestDelete(t *testing.T) {
	s := New()
	require.NoError(t, Register(s, "k", 1))

	assert.True(t, s.Delete("k"))
	assert.False(t, s.Exists("k"))
	assert.False(t, s.Delete("k"))
}

func TestKeysAndLen(t *testing.T) {
	s := New()
	assert.Empty(t, s.Keys())

	require.NoError(t, Register(s, "b", 2))
	require.NoError(t, Register(s, "a", "1"))
	require.NoError(t, Register(s, "c", 3.0))

	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())
	assert.Equal(t, 3, s.Len())
}

func TestClear(t *testing.T) {
	s := New()
	require.NoError(t, Register(s, "a", 1))
	require.NoError(t, Register(s, "b", 2))

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Exists("a"))
	require.NoError(t, Register(s, "a", 3))
	v, _ := Get[int](s, "a")
	assert.Equal(t, 3, v)
}

func TestSeal(t *testing.T) {
	s := New()
	require.NoError(t, Register(s, "a", 1))

	assert.True(t, s.Seal())
	assert.False(t, s.Seal(), "second Seal reports no change")
	assert.True(t, s.Sealed())

	assert.ErrorIs(t, Register(s, "b", 2), ErrSealed)
	assert.ErrorIs(t, Ensure(s, "b", func() int { return 2 }), ErrSealed)
	assert.NoError(t, Ensure(s, "a", func() int { return 0 }), "existing key needs no insert")

	_, ok := Apply(s, "a", func(v *int) int { *v = 10; return *v })
	assert.True(t, ok)
	_, ok = Replace(s, "a", 11)
	assert.True(t, ok)
	v, ok := Remove[int](s, "a")
	assert.True(t, ok)
	assert.Equal(t, 11, v)
}

func TestCaseFoldLower(t *testing.T) {
	s := New(WithCaseFoldLower())
	require.NoError(t, Register(s, "App.Logger", "x"))

	assert.True(t, s.Exists("app.logger"))
	assert.True(t, s.Exists("APP.LOGGER"))
	assert.Equal(t, []string{"app.logger"}, s.Keys())

	v, ok := Remove[string](s, "APP.Logger")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestCustomNormalizer(t *testing.T) {
	s := New(WithNormalizer(func(k string) string { return "ns." + k }))
	require.NoError(t, Register(s, "a", 1))

	assert.Equal(t, []string{"ns.a"}, s.Keys())
	info, ok := s.Describe("a")
	require.True(t, ok)
	assert.Equal(t, "ns.a", info.Key)
}

func TestNormalizerToEmptyKey(t *testing.T) {
	s := New(WithNormalizer(func(string) string { return "" }))
	assert.ErrorIs(t, Register(s, "anything", 1), ErrEmptyKey)
}

func TestMetrics(t *testing.T) {
	m := newFakeMetrics()
	s := New(WithMetrics(m))

	require.NoError(t, Register(s, "a", 1))
	require.NoError(t, Register(s, "a", 2))
	require.NoError(t, Register(s, "b", "x"))
	Apply(s, "a", func(v *int) int { return *v })
	Apply(s, "a", func(v *string) int { return 0 })
	Apply(s, "missing", func(v *int) int { return 0 })
	Remove[string](s, "b")
	s.Seal()
	_ = Register(s, "c", 1)

	assert.Equal(t, 3, m.count("register/ok"))
	assert.Equal(t, 1, m.count("register/rejected"))
	assert.Equal(t, 1, m.count("apply/ok"))
	assert.Equal(t, 1, m.count("apply/type_mismatch"))
	assert.Equal(t, 1, m.count("apply/not_found"))
	assert.Equal(t, 1, m.count("remove/ok"))
	assert.Equal(t, int64(1), m.slots)
	assert.Equal(t, 1, m.holds)

	s.Clear()
	assert.Equal(t, int64(0), m.slots)
}

func TestWithMetricsNilKeepsNoop(t *testing.T) {
	s := New(WithMetrics(nil))
	assert.IsType(t, observability.NoopMetrics{}, s.opt.metrics)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := New(WithLogger(logger))

	require.NoError(t, Register(s, "a", 1))
	Get[string](s, "a")
	Remove[int](s, "a")

	var msgs []string
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(line, &rec))
		msgs = append(msgs, rec["msg"].(string))
	}
	assert.Equal(t, []string{"value registered", "type mismatch", "value removed"}, msgs)
}

func TestLoggingWithName(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	// Option order does not matter.
	s := New(WithName("cache"), WithLogger(logger))

	require.NoError(t, Register(s, "a", 1))
	Get[string](s, "a")
	s.Seal()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	for _, line := range lines {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(line, &rec))
		assert.Equal(t, "cache", rec["store"], "record %v", rec["msg"])
	}
}

func TestWithNameWithoutLogger(t *testing.T) {
	s := New(WithName("quiet"))
	require.NoError(t, Register(s, "a", 1))
	assert.True(t, s.Exists("a"))
}

func TestConcurrentAccessSameKey(t *testing.T) {
	s := New()
	const goroutines = 32
	const iterations = 200

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				switch (g + i) % 5 {
				case 0:
					_ = Register(s, "shared", object{A: g})
				case 1:
					Apply(s, "shared", func(o *object) int { o.A++; return o.A })
				case 2:
					Remove[object](s, "shared")
				case 3:
					Get[object](s, "shared")
				case 4:
					s.Exists("shared")
				}
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, s.Len(), 1)
	if s.Exists("shared") {
		assert.NoError(t, Check[object](s, "shared"))
	}
}

func TestConcurrentApplyIsSerialized(t *testing.T) {
	s := New()
	require.NoError(t, Register(s, "counter", 0))

	const goroutines = 50
	const iterations = 100

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				Apply(s, "counter", func(v *int) struct{} {
					*v++
					return struct{}{}
				})
			}
		}()
	}
	wg.Wait()

	v, ok := Get[int](s, "counter")
	require.True(t, ok)
	assert.Equal(t, goroutines*iterations, v)
}

func TestConcurrentRegisterNoTornValues(t *testing.T) {
	s := New()

	type pair struct{ X, Y int }

	var wg sync.WaitGroup
	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = Register(s, "pair", pair{X: g, Y: g})
				if p, ok := Get[pair](s, "pair"); ok {
					assert.Equal(t, p.X, p.Y)
				}
			}
		}(g)
	}
	wg.Wait()

	p, ok := Get[pair](s, "pair")
	require.True(t, ok)
	assert.Equal(t, p.X, p.Y)
}

func TestRemoveRacingApply(t *testing.T) {
	for round := 0; round < 100; round++ {
		s := New()
		require.NoError(t, Register(s, "k", 0))

		var applied atomic.Bool
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, ok := Apply(s, "k", func(v *int) bool { *v = 1; return true })
			applied.Store(ok)
		}()
		var removed int
		var removedOK bool
		go func() {
			defer wg.Done()
			removed, removedOK = Remove[int](s, "k")
		}()
		wg.Wait()

		require.True(t, removedOK)
		assert.False(t, s.Exists("k"))
		if applied.Load() {
			assert.Equal(t, 1, removed, "apply completed before remove took the value")
		} else {
			assert.Equal(t, 0, removed)
		}
	}
}

func TestConcurrentEnsureRunsFactoryOnce(t *testing.T) {
	s := New()
	var calls atomic.Int32

	var wg sync.WaitGroup
	for g := 0; g < 50; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, Ensure(s, "once", func() string {
				calls.Add(1)
				return "v"
			}))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	s := New()
	require.NoError(t, Register(s, "slow", 0))
	require.NoError(t, Register(s, "fast", 0))

	entered := make(chan struct{})
	release := make(chan struct{})
	go Apply(s, "slow", func(v *int) int {
		close(entered)
		<-release
		return *v
	})
	<-entered

	done := make(chan struct{})
	go func() {
		defer close(done)
		Apply(s, "fast", func(v *int) int { *v++; return *v })
		_ = Register(s, fmt.Sprintf("new-%d", 1), true)
		Remove[int](s, "fast")
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("operations on other keys blocked behind a held slot lock")
	}
	close(release)
}
