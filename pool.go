package c2md

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent transcribers. Browser-backed ones cost
	// one Chrome instance (~200MB) each.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// TranscriberPool manages Transcriber instances for parallel processing.
// Each transcriber owns its fetcher (and browser, if any).
// Transcribers are created lazily on first acquire to avoid startup delay.
type TranscriberPool struct {
	size         int
	newFn        func() (*Transcriber, error)
	transcribers []*Transcriber
	sem          chan *Transcriber
	mu           sync.Mutex
	created      int
	closed       bool
}

// NewTranscriberPool creates a pool with capacity for n transcribers built
// by newFn.
func NewTranscriberPool(n int, newFn func() (*Transcriber, error)) *TranscriberPool {
	if n < 1 {
		n = 1
	}

	return &TranscriberPool{
		size:         n,
		newFn:        newFn,
		transcribers: make([]*Transcriber, 0, n),
		sem:          make(chan *Transcriber, n),
	}
}

// Acquire gets a transcriber from the pool, creating one if needed.
// Blocks if all transcribers are in use.
func (p *TranscriberPool) Acquire() (*Transcriber, error) {
	// Try to get an existing transcriber (non-blocking)
	select {
	case t, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return t, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new transcriber outside the lock
		t, err := p.newFn()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.transcribers = append(p.transcribers, t)
		p.mu.Unlock()

		return t, nil
	}
	p.mu.Unlock()

	// All transcribers created, wait for one to be released
	t, ok := <-p.sem
	if !ok {
		return nil, ErrPoolClosed
	}
	return t, nil
}

// Release returns a transcriber to the pool.
// The lock is released before sending to avoid deadlock when channel is full.
func (p *TranscriberPool) Release(t *Transcriber) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sem <- t
}

// Close releases all transcriber resources.
// Returns an aggregated error if multiple transcribers fail to close.
func (p *TranscriberPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	transcribers := p.transcribers
	p.mu.Unlock()

	var errs []error
	for _, t := range transcribers {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *TranscriberPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
