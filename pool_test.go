package c2md

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire() (*Transcriber, error)
	Release(*Transcriber)
	Size() int
	Close() error
} = (*TranscriberPool)(nil)

// newTestPool creates a pool of fetcher-less transcribers and counts creations.
func newTestPool(n int) (*TranscriberPool, *atomic.Int32) {
	var created atomic.Int32
	pool := NewTranscriberPool(n, func() (*Transcriber, error) {
		created.Add(1)
		return NewTranscriber(WithFetcher(&fakeFetcher{}))
	})
	return pool, &created
}

func mustAcquire(t *testing.T, pool *TranscriberPool) *Transcriber {
	t.Helper()

	tr, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	if tr == nil {
		t.Fatal("Acquire() returned nil")
	}
	return tr
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit takes priority", 4, 4},
		{"explicit=1 for sequential", 1, 1},
		{"explicit can exceed max", 100, 100},
		{"zero uses auto calculation", 0, min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
		{"negative uses auto calculation", -5, min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestTranscriberPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool, created := newTestPool(2)
	defer pool.Close()

	tr1 := mustAcquire(t, pool)
	tr2 := mustAcquire(t, pool)
	if tr1 == tr2 {
		t.Error("expected different transcriber instances")
	}

	pool.Release(tr1)
	if tr3 := mustAcquire(t, pool); tr3 != tr1 {
		t.Error("expected to get back released transcriber")
	}
	if created.Load() != 2 {
		t.Errorf("created = %d, want 2", created.Load())
	}
}

func TestTranscriberPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"size 0 becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool, _ := newTestPool(tt.size)
			defer pool.Close()

			if got := pool.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTranscriberPool_LazyCreation(t *testing.T) {
	t.Parallel()

	pool, created := newTestPool(3)
	defer pool.Close()

	if created.Load() != 0 {
		t.Fatalf("created = %d before Acquire, want 0", created.Load())
	}

	tr := mustAcquire(t, pool)
	pool.Release(tr)
	pool.Release(mustAcquire(t, pool))

	if created.Load() != 1 {
		t.Errorf("created = %d, want 1 (released transcriber reused)", created.Load())
	}
}

func TestTranscriberPool_FactoryError(t *testing.T) {
	t.Parallel()

	errFactory := errors.New("factory failed")
	fail := true
	pool := NewTranscriberPool(1, func() (*Transcriber, error) {
		if fail {
			return nil, errFactory
		}
		return NewTranscriber()
	})
	defer pool.Close()

	if _, err := pool.Acquire(); !errors.Is(err, errFactory) {
		t.Fatalf("Acquire() error = %v, want %v", err, errFactory)
	}

	// A failed creation frees its slot.
	fail = false
	mustAcquire(t, pool)
}

func TestTranscriberPool_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	pool, created := newTestPool(2)
	defer pool.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				tr, err := pool.Acquire()
				if err != nil {
					t.Errorf("Acquire() unexpected error: %v", err)
					return
				}
				time.Sleep(time.Duration(j%3) * time.Millisecond)
				pool.Release(tr)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(30 * time.Second)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		t.Fatal("high contention test timed out - possible deadlock")
	}

	if created.Load() > 2 {
		t.Errorf("created = %d, want at most 2", created.Load())
	}
}

func TestTranscriberPool_Close(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	pool := NewTranscriberPool(1, func() (*Transcriber, error) {
		return NewTranscriber(WithFetcher(fetcher))
	})

	tr := mustAcquire(t, pool)
	if err := pool.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !fetcher.closed {
		t.Error("Close() should close every created transcriber")
	}

	// Release after close is a no-op, second close is safe.
	pool.Release(tr)
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if _, err := pool.Acquire(); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrPoolClosed", err)
	}
}
