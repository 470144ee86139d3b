package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	c2md "github.com/alnah/go-c2md"
	"github.com/alnah/go-c2md/internal/assets"
	"github.com/alnah/go-c2md/internal/config"
	"github.com/alnah/go-c2md/internal/fileutil"
	"github.com/alnah/go-c2md/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadPage           = errors.New("failed to read saved page")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrMissingPageURL     = errors.New("saved page has no address")
	ErrCopyMultiple       = errors.New("--copy accepts a single input")
	ErrClipboardDisabled  = errors.New("clipboard disabled by config")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrInvalidFlags       = errors.New("invalid flags")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// stdinInput names standard input as a transcription input.
const stdinInput = "-"

// maxWorkers caps the --workers flag.
const maxWorkers = 32

// transcribeParams groups settings shared by every input of one run.
type transcribeParams struct {
	pageURL   string
	outputDir string
	html      bool
	copy      bool
	quiet     bool
	verbose   bool
	stdin     io.Reader
}

// runTranscribe orchestrates the transcription of every input.
func runTranscribe(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseTranscribeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return withConfigHint(err)
	}
	mergeTranscribeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeout, err := resolveTimeoutWithEnv(flags.fetch.timeout, envCfg.Timeout, cfg.Fetch.Timeout)
	if err != nil {
		return err
	}

	if err := validateInputs(inputs, flags); err != nil {
		return err
	}
	if flags.copy && !cfg.Clipboard.Enabled {
		return fmt.Errorf("%w: set clipboard.enabled to true", ErrClipboardDisabled)
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	opts := transcriberOptions(cfg, timeout, logger)
	poolSize := c2md.ResolvePoolSize(workers)
	if poolSize > len(inputs) {
		poolSize = len(inputs)
	}
	logger.Debug("starting transcription", "inputs", len(inputs), "workers", poolSize)

	pool := c2md.NewTranscriberPool(poolSize, func() (*c2md.Transcriber, error) {
		return c2md.NewTranscriber(opts...)
	})
	defer pool.Close()

	// Surface construction errors (bad host, unknown style) once, not per input.
	t, err := pool.Acquire()
	if err != nil {
		return withStyleHint(err)
	}
	pool.Release(t)

	params := &transcribeParams{
		pageURL:   flags.pageURL,
		outputDir: cfg.Output.DefaultDir,
		html:      cfg.Output.HTML,
		copy:      flags.copy,
		quiet:     flags.common.quiet,
		verbose:   flags.common.verbose,
		stdin:     env.Stdin,
	}

	results := transcribeBatch(ctx, pool, inputs, params)

	var cp Copier
	if params.copy {
		cp = env.NewCopier(cfg, logger)
	}
	return writeResults(ctx, results, params, cp, env)
}

// mergeTranscribeFlags merges CLI flags into config. CLI values override config values.
func mergeTranscribeFlags(flags *transcribeFlags, cfg *config.Config) {
	if flags.host != "" {
		cfg.Host = flags.host
	}
	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}
	if flags.html {
		cfg.Output.HTML = true
	}
	if flags.style != "" {
		cfg.Output.Style = flags.style
		cfg.Output.HTML = true
	}
	if flags.fetch.cookie != "" {
		cfg.Fetch.Cookie = flags.fetch.cookie
	}
	if flags.fetch.userAgent != "" {
		cfg.Fetch.UserAgent = flags.fetch.userAgent
	}
	if flags.fetch.browser {
		cfg.Fetch.Browser = true
	}
	if flags.browser.bin != "" {
		cfg.Browser.Bin = flags.browser.bin
	}
	if flags.browser.userDataDir != "" {
		cfg.Browser.UserDataDir = flags.browser.userDataDir
	}
}

// transcriberOptions translates the resolved config into library options.
// A zero timeout keeps the library default.
func transcriberOptions(cfg *config.Config, timeout time.Duration, logger *slog.Logger) []c2md.Option {
	opts := []c2md.Option{
		c2md.WithHost(cfg.Host),
		c2md.WithLogger(logger),
		c2md.WithCookie(cfg.Fetch.Cookie),
		c2md.WithUserAgent(cfg.Fetch.UserAgent),
	}
	if timeout > 0 {
		opts = append(opts, c2md.WithTimeout(timeout))
	}
	if cfg.Output.HTML {
		opts = append(opts, c2md.WithPreviewStyle(cfg.Output.Style))
	}
	if cfg.Fetch.Browser {
		opts = append(opts, c2md.WithBrowser(c2md.BrowserOptions{
			Bin:         cfg.Browser.Bin,
			Headless:    cfg.Browser.Headless,
			UserDataDir: cfg.Browser.UserDataDir,
		}))
	}
	return opts
}

// validateInputs checks the positional arguments against the flags.
func validateInputs(inputs []string, flags *transcribeFlags) error {
	if len(inputs) == 0 {
		return fmt.Errorf("%w: pass a workout address or a saved page", ErrNoInput)
	}
	if flags.copy && len(inputs) > 1 {
		return fmt.Errorf("%w, got %d", ErrCopyMultiple, len(inputs))
	}
	if flags.pageURL != "" && len(inputs) > 1 {
		return fmt.Errorf("%w: --page-url accepts a single input", ErrInvalidFlags)
	}

	stdinCount := 0
	for _, in := range inputs {
		if in == stdinInput {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return fmt.Errorf("%w: standard input can only be read once", ErrInvalidFlags)
	}
	return nil
}

// validateWorkers checks that the worker count is within bounds.
func validateWorkers(n int) error {
	if n < 0 || n > maxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// transcribeInput transcribes one address, saved page, or standard input.
func transcribeInput(ctx context.Context, t *c2md.Transcriber, input string, params *transcribeParams) (*c2md.Result, error) {
	if isURL(input) {
		res, err := t.TranscribeURL(ctx, input)
		if err != nil {
			return nil, withTranscribeHint(err, input)
		}
		return res, nil
	}

	var r io.Reader
	if input == stdinInput {
		r = params.stdin
	} else {
		f, err := os.Open(input) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadPage, err)
		}
		defer f.Close()
		r = f
	}

	page, err := c2md.ReadPage(r, params.pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadPage, input, err)
	}
	if page.URL() == "" {
		return nil, fmt.Errorf("%w: %s%s", ErrMissingPageURL, input, hints.ForMissingPageURL())
	}

	res, err := t.Transcribe(ctx, page)
	if err != nil {
		return nil, withTranscribeHint(err, page.URL())
	}
	return res, nil
}

// writeResults emits successful transcriptions in input order and reports
// failures. Returns an error wrapping the first failure.
func writeResults(ctx context.Context, results []TranscriptionResult, params *transcribeParams, cp Copier, env *Environment) error {
	var firstErr error
	failed := 0
	written := 0

	for _, r := range results {
		if r.Err == nil {
			r.Err = emitResult(ctx, r, params, cp, env, written)
		}
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
			if len(results) > 1 {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Input, r.Err)
			}
			continue
		}
		written++
	}

	if !params.quiet && len(results) > 1 && params.outputDir != "" {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	if failed == 0 {
		return nil
	}
	if len(results) == 1 {
		return firstErr
	}
	return fmt.Errorf("%d transcription(s) failed: %w", failed, firstErr)
}

// emitResult copies, prints, or writes one transcription.
// index counts previous results written to stdout.
func emitResult(ctx context.Context, r TranscriptionResult, params *transcribeParams, cp Copier, env *Environment, index int) error {
	rec := r.Result.Record

	if params.copy {
		res, err := cp.Copy(ctx, r.Result.Markdown)
		if err != nil {
			return fmt.Errorf("%w%s", err, hints.ForClipboard(goos))
		}
		if !params.quiet {
			fmt.Fprintf(env.Stderr, "Copied workout %s (%s)\n", rec.ID, res.Method)
		}
	}

	if params.outputDir == "" {
		if !params.copy {
			if index > 0 {
				fmt.Fprintln(env.Stdout)
			}
			fmt.Fprint(env.Stdout, r.Result.Markdown)
		}
		if params.html {
			return writeOutput(r, "", "html", r.Result.HTML, params, env)
		}
		return nil
	}

	if err := os.MkdirAll(params.outputDir, dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	if err := writeOutput(r, params.outputDir, "md", r.Result.Markdown, params, env); err != nil {
		return err
	}
	if params.html {
		return writeOutput(r, params.outputDir, "html", r.Result.HTML, params, env)
	}
	return nil
}

// writeOutput writes content to <dir>/<workout id>.<ext>.
func writeOutput(r TranscriptionResult, dir, ext, content string, params *transcribeParams, env *Environment) error {
	path, err := fileutil.OutputPath(dir, r.Result.Record.ID, ext)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte(content), filePermissions); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}

	if params.quiet {
		return nil
	}

	// Stdout carries the markdown when no output directory is set.
	out := env.Stdout
	if params.outputDir == "" {
		out = env.Stderr
	}
	if params.verbose {
		fmt.Fprintf(out, "%s -> %s (%v)\n", r.Input, path, r.Duration.Round(time.Millisecond))
	} else {
		fmt.Fprintf(out, "Created %s\n", path)
	}
	return nil
}

// withTranscribeHint appends the hint matching a pipeline error.
// pageURL is the address the transcriber was asked for.
func withTranscribeHint(err error, pageURL string) error {
	switch {
	case errors.Is(err, c2md.ErrNotWorkoutPage):
		return fmt.Errorf("%w%s", err, hints.ForNotWorkoutPage(c2md.IsWorkoutPage(pageURL)))
	case errors.Is(err, c2md.ErrBrowserConnect):
		return fmt.Errorf("%w%s", err, hints.ForBrowserConnect())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, c2md.ErrPageLoad):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	}
	return err
}

// withConfigHint appends config-related hints.
func withConfigHint(err error) error {
	if errors.Is(err, config.ErrConfigNotFound) {
		return fmt.Errorf("%w%s", err, hints.ForConfigNotFound(triedPaths(err)))
	}
	return err
}

// withStyleHint lists bundled styles when the preview style is unknown.
func withStyleHint(err error) error {
	if errors.Is(err, assets.ErrStyleNotFound) {
		return fmt.Errorf("%w%s", err, hints.ForStyleNotFound(assets.ListStyles()))
	}
	return err
}

// triedPaths extracts the searched paths from a config-not-found error.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}

// isURL reports whether arg is an http(s) address.
func isURL(arg string) bool {
	return fileutil.IsURL(arg)
}

// looksLikeHTML reports whether arg names a saved HTML page.
func looksLikeHTML(arg string) bool {
	return strings.HasSuffix(arg, ".html") || strings.HasSuffix(arg, ".htm")
}
