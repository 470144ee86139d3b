package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	c2md "github.com/alnah/go-c2md"
	"github.com/alnah/go-c2md/internal/config"
)

// Copier places text on the clipboard.
type Copier interface {
	Copy(ctx context.Context, text string) (c2md.CopyResult, error)
}

// Compile-time interface implementation check.
var _ Copier = (*c2md.ClipboardWriter)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O and the clipboard.
type Environment struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Stdin     io.Reader
	NewCopier func(cfg *config.Config, logger *slog.Logger) Copier
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Stdin:     os.Stdin,
		NewCopier: newSystemCopier,
	}
}

// newSystemCopier builds the platform clipboard writer. With clipboard.osc52
// enabled, terminals without a clipboard utility get an OSC 52 sequence on
// stderr, which stays attached to the terminal when stdout is redirected.
func newSystemCopier(cfg *config.Config, logger *slog.Logger) Copier {
	opts := []c2md.ClipboardOption{c2md.WithClipboardLogger(logger)}
	if cfg.Clipboard.OSC52 {
		opts = append(opts, c2md.WithFallback(c2md.NewOSC52Fallback(os.Stderr)))
	}
	return c2md.NewClipboardWriter(opts...)
}
