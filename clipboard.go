package c2md

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
)

// defaultPrimaryTimeout bounds the system clipboard write before falling back.
const defaultPrimaryTimeout = 5 * time.Second

// CopyMethod identifies which path placed the text on the clipboard.
type CopyMethod int

const (
	CopyNone CopyMethod = iota
	CopyPrimary
	CopyFallback
)

// String returns a lowercase name for logs.
func (m CopyMethod) String() string {
	switch m {
	case CopyPrimary:
		return "primary"
	case CopyFallback:
		return "fallback"
	default:
		return "none"
	}
}

// CopyResult is the outcome of a copy attempt.
// A fallback copy is always reported as successful: it cannot be verified.
type CopyResult struct {
	Method     CopyMethod
	PrimaryErr error // why the primary path was skipped or rejected
}

// systemClipboard abstracts the platform clipboard to enable testing.
type systemClipboard interface {
	Available() bool
	WriteAll(text string) error
}

// atottoClipboard writes through the platform clipboard utilities
// (pbcopy, xclip, xsel, wl-copy, Windows API).
type atottoClipboard struct{}

func (atottoClipboard) Available() bool            { return !clipboard.Unsupported }
func (atottoClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Fallback copies text synchronously when the system clipboard is missing
// or rejects the write. Its errors are logged, never surfaced.
type Fallback interface {
	CopyFallback(text string) error
}

// FallbackFunc adapts a function to the Fallback interface.
type FallbackFunc func(text string) error

// CopyFallback calls f(text).
func (f FallbackFunc) CopyFallback(text string) error { return f(text) }

// OSC52Fallback asks the terminal emulator to set the clipboard using the
// OSC 52 escape sequence. Works over SSH and in terminals without a local
// clipboard utility; terminals that ignore the sequence drop it silently.
type OSC52Fallback struct {
	w io.Writer
}

// NewOSC52Fallback creates a fallback writing escape sequences to w (usually the TTY).
func NewOSC52Fallback(w io.Writer) *OSC52Fallback {
	return &OSC52Fallback{w: w}
}

// CopyFallback writes the OSC 52 sequence for text.
func (f *OSC52Fallback) CopyFallback(text string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	_, err := fmt.Fprintf(f.w, "\x1b]52;c;%s\a", encoded)
	return err
}

// ClipboardWriter copies text with a two-tier strategy: the system clipboard
// first, then a synchronous fallback.
type ClipboardWriter struct {
	primary        systemClipboard
	fallback       Fallback
	primaryTimeout time.Duration
	logger         *slog.Logger
}

// ClipboardOption configures a ClipboardWriter.
type ClipboardOption func(*ClipboardWriter)

// WithFallback sets the fallback used when the system clipboard fails.
func WithFallback(f Fallback) ClipboardOption {
	return func(c *ClipboardWriter) {
		c.fallback = f
	}
}

// WithPrimaryTimeout bounds the system clipboard write.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithPrimaryTimeout(d time.Duration) ClipboardOption {
	if d <= 0 {
		panic("c2md: WithPrimaryTimeout duration must be positive")
	}
	return func(c *ClipboardWriter) {
		c.primaryTimeout = d
	}
}

// WithClipboardLogger sets the diagnostic logger.
func WithClipboardLogger(l *slog.Logger) ClipboardOption {
	return func(c *ClipboardWriter) {
		if l != nil {
			c.logger = l
		}
	}
}

// withSystemClipboard replaces the platform clipboard (tests only).
func withSystemClipboard(sc systemClipboard) ClipboardOption {
	return func(c *ClipboardWriter) {
		c.primary = sc
	}
}

// NewClipboardWriter creates a ClipboardWriter backed by the platform clipboard.
func NewClipboardWriter(opts ...ClipboardOption) *ClipboardWriter {
	c := &ClipboardWriter{
		primary:        atottoClipboard{},
		primaryTimeout: defaultPrimaryTimeout,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PrimaryAvailable reports whether the system clipboard can be used.
func (c *ClipboardWriter) PrimaryAvailable() bool {
	return c.primary != nil && c.primary.Available()
}

// Copy places text on the clipboard.
// A rejected primary write falls through to the fallback and is only logged.
// Returns ErrClipboardUnavailable when the primary path fails and no
// fallback is configured.
func (c *ClipboardWriter) Copy(ctx context.Context, text string) (CopyResult, error) {
	var res CopyResult

	if c.PrimaryAvailable() {
		err := c.writePrimary(ctx, text)
		if err == nil {
			res.Method = CopyPrimary
			c.logger.Debug("copied to clipboard", "method", res.Method, "bytes", len(text))
			return res, nil
		}
		c.logger.Warn("clipboard write failed, using fallback", "error", err)
		res.PrimaryErr = err
	} else {
		res.PrimaryErr = ErrClipboardUnavailable
	}

	if c.fallback == nil {
		return res, fmt.Errorf("%w: %v", ErrClipboardUnavailable, res.PrimaryErr)
	}

	if err := c.fallback.CopyFallback(text); err != nil {
		c.logger.Debug("fallback copy reported an error", "error", err)
	}
	res.Method = CopyFallback
	c.logger.Debug("copied to clipboard", "method", res.Method, "bytes", len(text))
	return res, nil
}

// CopyAsync runs Copy in a goroutine and reports through callbacks.
// onFailure is only reachable when no fallback is configured.
func (c *ClipboardWriter) CopyAsync(ctx context.Context, text string, onSuccess, onFailure func()) {
	go func() {
		if _, err := c.Copy(ctx, text); err != nil {
			if onFailure != nil {
				onFailure()
			}
			return
		}
		if onSuccess != nil {
			onSuccess()
		}
	}()
}

// writePrimary writes to the system clipboard, bounded by ctx and the
// primary timeout. The clipboard utilities have no context support, so the
// write runs in a goroutine and is abandoned on timeout.
func (c *ClipboardWriter) writePrimary(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, c.primaryTimeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- c.primary.WriteAll(text)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// withFallback returns a copy of c using f as its fallback.
// The Enhancer uses it to bind the in-page fallback to one browser tab.
func (c *ClipboardWriter) withFallback(f Fallback) *ClipboardWriter {
	cp := *c
	cp.fallback = f
	return &cp
}
