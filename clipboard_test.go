package c2md

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClipboard is a controllable systemClipboard.
type fakeClipboard struct {
	mu        sync.Mutex
	available bool
	err       error
	block     chan struct{} // when set, WriteAll waits on it
	written   []string
}

func (f *fakeClipboard) Available() bool { return f.available }

func (f *fakeClipboard) WriteAll(text string) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, text)
	return nil
}

// recordingFallback records fallback copies.
type recordingFallback struct {
	mu     sync.Mutex
	err    error
	copied []string
}

func (r *recordingFallback) CopyFallback(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.copied = append(r.copied, text)
	return r.err
}

func (r *recordingFallback) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.copied)
}

func TestClipboardWriter_Copy(t *testing.T) {
	t.Parallel()

	errRejected := errors.New("permission denied")

	tests := []struct {
		name          string
		primary       *fakeClipboard
		fallback      *recordingFallback
		wantMethod    CopyMethod
		wantErr       error
		wantPrimary   int
		wantFallbacks int
	}{
		{
			name:        "primary succeeds",
			primary:     &fakeClipboard{available: true},
			fallback:    &recordingFallback{},
			wantMethod:  CopyPrimary,
			wantPrimary: 1,
		},
		{
			name:          "primary unavailable uses fallback",
			primary:       &fakeClipboard{available: false},
			fallback:      &recordingFallback{},
			wantMethod:    CopyFallback,
			wantFallbacks: 1,
		},
		{
			name:          "primary rejects uses fallback",
			primary:       &fakeClipboard{available: true, err: errRejected},
			fallback:      &recordingFallback{},
			wantMethod:    CopyFallback,
			wantFallbacks: 1,
		},
		{
			name:          "fallback error still reported as success",
			primary:       &fakeClipboard{available: false},
			fallback:      &recordingFallback{err: errors.New("execCommand failed")},
			wantMethod:    CopyFallback,
			wantFallbacks: 1,
		},
		{
			name:       "no fallback",
			primary:    &fakeClipboard{available: true, err: errRejected},
			wantMethod: CopyNone,
			wantErr:    ErrClipboardUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := []ClipboardOption{withSystemClipboard(tt.primary)}
			if tt.fallback != nil {
				opts = append(opts, WithFallback(tt.fallback))
			}
			c := NewClipboardWriter(opts...)

			res, err := c.Copy(context.Background(), "# Workout")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Copy() error = %v, want %v", err, tt.wantErr)
			}
			if res.Method != tt.wantMethod {
				t.Errorf("Method = %v, want %v", res.Method, tt.wantMethod)
			}
			if got := len(tt.primary.written); got != tt.wantPrimary {
				t.Errorf("primary writes = %d, want %d", got, tt.wantPrimary)
			}
			if tt.fallback != nil && tt.fallback.count() != tt.wantFallbacks {
				t.Errorf("fallback copies = %d, want %d", tt.fallback.count(), tt.wantFallbacks)
			}
		})
	}
}

func TestClipboardWriter_Copy_PrimaryRejectionRecorded(t *testing.T) {
	t.Parallel()

	errRejected := errors.New("denied")
	c := NewClipboardWriter(
		withSystemClipboard(&fakeClipboard{available: true, err: errRejected}),
		WithFallback(&recordingFallback{}),
	)

	res, err := c.Copy(context.Background(), "x")
	if err != nil {
		t.Fatalf("Copy() unexpected error: %v", err)
	}
	if !errors.Is(res.PrimaryErr, errRejected) {
		t.Errorf("PrimaryErr = %v, want %v", res.PrimaryErr, errRejected)
	}
}

func TestClipboardWriter_Copy_PrimaryTimeoutFallsBack(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	defer close(block)

	fb := &recordingFallback{}
	c := NewClipboardWriter(
		withSystemClipboard(&fakeClipboard{available: true, block: block}),
		WithFallback(fb),
		WithPrimaryTimeout(10*time.Millisecond),
	)

	res, err := c.Copy(context.Background(), "x")
	if err != nil {
		t.Fatalf("Copy() unexpected error: %v", err)
	}
	if res.Method != CopyFallback {
		t.Errorf("Method = %v, want fallback", res.Method)
	}
	if !errors.Is(res.PrimaryErr, context.DeadlineExceeded) {
		t.Errorf("PrimaryErr = %v, want deadline exceeded", res.PrimaryErr)
	}
}

func TestClipboardWriter_CopyAsync(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		fallback    Fallback
		wantSuccess bool
	}{
		{"success through fallback", &recordingFallback{}, true},
		{"failure without fallback", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := []ClipboardOption{withSystemClipboard(&fakeClipboard{available: false})}
			if tt.fallback != nil {
				opts = append(opts, WithFallback(tt.fallback))
			}
			c := NewClipboardWriter(opts...)

			done := make(chan bool, 1)
			c.CopyAsync(context.Background(), "x",
				func() { done <- true },
				func() { done <- false },
			)

			select {
			case got := <-done:
				if got != tt.wantSuccess {
					t.Errorf("success = %v, want %v", got, tt.wantSuccess)
				}
			case <-time.After(time.Second):
				t.Fatal("CopyAsync() callback not called")
			}
		})
	}
}

func TestOSC52Fallback(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := NewOSC52Fallback(&buf).CopyFallback("hello"); err != nil {
		t.Fatalf("CopyFallback() unexpected error: %v", err)
	}

	want := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte("hello")) + "\a"
	if got := buf.String(); got != want {
		t.Errorf("CopyFallback() wrote %q, want %q", got, want)
	}
}

func TestWithPrimaryTimeout_PanicsOnInvalid(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithPrimaryTimeout(0) should panic")
		}
	}()
	WithPrimaryTimeout(0)
}

func TestClipboardWriter_WithFallbackCopies(t *testing.T) {
	t.Parallel()

	base := NewClipboardWriter(withSystemClipboard(&fakeClipboard{available: false}))
	fb := &recordingFallback{}
	bound := base.withFallback(fb)

	if _, err := base.Copy(context.Background(), "x"); !errors.Is(err, ErrClipboardUnavailable) {
		t.Errorf("base Copy() error = %v, want ErrClipboardUnavailable", err)
	}
	if _, err := bound.Copy(context.Background(), "x"); err != nil {
		t.Errorf("bound Copy() unexpected error: %v", err)
	}
	if fb.count() != 1 {
		t.Errorf("fallback copies = %d, want 1", fb.count())
	}
}

func TestCopyMethod_String(t *testing.T) {
	t.Parallel()

	tests := map[CopyMethod]string{
		CopyNone:     "none",
		CopyPrimary:  "primary",
		CopyFallback: "fallback",
	}
	for m, want := range tests {
		if got := m.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", m, got, want)
		}
	}
}
