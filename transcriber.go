package c2md

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alnah/go-c2md/internal/assets"
	"github.com/alnah/go-c2md/internal/fileutil"
	"github.com/alnah/go-c2md/internal/pipeline"
)

// defaultTimeout bounds page fetches and browser page loads.
const defaultTimeout = 30 * time.Second

// Transcriber runs the workout pipeline: Locator, Extractor, Renderer,
// plus an optional HTML preview.
// Create with NewTranscriber, use Transcribe or TranscribeURL, and Close when done.
type Transcriber struct {
	cfg       transcriberConfig
	logger    *slog.Logger
	extractor *Extractor
	fetcher   Fetcher
	previewer *pipeline.Previewer
}

// transcriberConfig collects option values before construction.
type transcriberConfig struct {
	host       string
	timeout    time.Duration
	cookie     string
	userAgent  string
	browser    *BrowserOptions
	preview    bool
	styleInput string
}

// Option configures a Transcriber.
type Option func(*Transcriber)

// WithHost sets the logbook host used for image addresses.
// Invalid hosts make NewTranscriber fail with ErrInvalidHost.
func WithHost(host string) Option {
	return func(t *Transcriber) {
		t.cfg.host = host
	}
}

// WithTimeout sets the page fetch timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("c2md: WithTimeout duration must be positive")
	}
	return func(t *Transcriber) {
		t.cfg.timeout = d
	}
}

// WithLogger sets the diagnostic logger. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transcriber) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithFetcher replaces the page fetcher used by TranscribeURL.
func WithFetcher(f Fetcher) Option {
	return func(t *Transcriber) {
		t.fetcher = f
	}
}

// WithCookie sets the Cookie header sent by the HTTP fetcher.
// Private workouts are only visible to a logged-in owner.
func WithCookie(cookie string) Option {
	return func(t *Transcriber) {
		t.cfg.cookie = cookie
	}
}

// WithUserAgent sets the User-Agent header sent by the HTTP fetcher.
func WithUserAgent(ua string) Option {
	return func(t *Transcriber) {
		t.cfg.userAgent = ua
	}
}

// WithBrowser makes TranscribeURL load pages through Chrome instead of HTTP.
func WithBrowser(opts BrowserOptions) Option {
	return func(t *Transcriber) {
		t.cfg.browser = &opts
	}
}

// WithPreview enables the HTML preview in every Result.
func WithPreview(enabled bool) Option {
	return func(t *Transcriber) {
		t.cfg.preview = enabled
	}
}

// WithPreviewStyle sets the preview CSS and enables the preview.
// Accepts a bundled style name, a file path, or raw CSS content.
func WithPreviewStyle(style string) Option {
	return func(t *Transcriber) {
		t.cfg.preview = true
		t.cfg.styleInput = style
	}
}

// Result is the outcome of one transcription.
type Result struct {
	Record   *WorkoutRecord
	Markdown string
	HTML     string // empty unless the preview is enabled
}

// NewTranscriber creates a Transcriber with default configuration.
// Returns an error for an invalid host or an unresolvable preview style.
func NewTranscriber(opts ...Option) (*Transcriber, error) {
	t := &Transcriber{
		cfg:    transcriberConfig{host: DefaultHost, timeout: defaultTimeout},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := validateHost(t.cfg.host); err != nil {
		return nil, err
	}
	t.extractor = NewExtractor(t.cfg.host, t.logger)

	if t.cfg.preview {
		css, err := resolveStyle(t.cfg.styleInput)
		if err != nil {
			return nil, err
		}
		t.previewer = pipeline.NewPreviewer(css)
	}

	// Fetcher is only created if not injected (e.g., by tests)
	if t.fetcher == nil {
		if t.cfg.browser != nil {
			t.fetcher = NewBrowserFetcher(*t.cfg.browser, t.cfg.timeout)
		} else {
			t.fetcher = NewHTTPFetcher(t.cfg.timeout, t.cfg.cookie, t.cfg.userAgent)
		}
	}

	return t, nil
}

// Host returns the logbook host used for image addresses.
func (t *Transcriber) Host() string {
	return t.cfg.host
}

// Transcribe runs the pipeline on a page.
// Returns ErrNotWorkoutPage, without reading the DOM, when the page address
// has no workout identifier. Missing page regions never fail.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (t *Transcriber) Transcribe(ctx context.Context, page Page) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if page == nil {
		return nil, ErrMissingPage
	}

	id, err := t.locate(page.URL())
	if err != nil {
		return nil, err
	}

	doc, err := page.Document(ctx)
	if err != nil {
		return nil, err
	}

	rec := t.extractor.Extract(doc, id, page.URL())
	res = &Result{Record: rec, Markdown: Render(rec)}

	if t.previewer != nil {
		res.HTML, err = t.previewer.Preview(ctx, res.Markdown, rec.Title)
		if err != nil {
			return nil, fmt.Errorf("rendering preview: %w", err)
		}
	}

	t.logger.Info("transcribed workout", "workout", id, "title", rec.Title, "bytes", len(res.Markdown))
	return res, nil
}

// TranscribeURL fetches pageURL and transcribes it.
// The address is checked before any network access.
func (t *Transcriber) TranscribeURL(ctx context.Context, pageURL string) (*Result, error) {
	if _, err := t.locate(pageURL); err != nil {
		return nil, err
	}

	t.logger.Debug("fetching page", "url", pageURL)
	page, err := t.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	if page.URL() != pageURL {
		t.logger.Debug("page redirected", "from", pageURL, "to", page.URL())
	}
	return t.Transcribe(ctx, page)
}

// Close releases fetcher resources (headless Chrome browser).
func (t *Transcriber) Close() error {
	if c, ok := t.fetcher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// locate runs the Locator and logs pages it rejects.
func (t *Transcriber) locate(pageURL string) (string, error) {
	id, err := WorkoutID(pageURL)
	if err != nil {
		t.logger.Info("not a workout page, skipping", "url", pageURL)
		return "", err
	}
	return id, nil
}

// resolveStyle resolves a style input (name, path, or CSS content) to CSS.
// Empty input selects the bundled preview style.
func resolveStyle(input string) (string, error) {
	if input == "" {
		input = assets.StylePreview
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("loading style file %q: %w", input, err)
		}
		return string(content), nil
	}

	// CSS content? (contains {)
	if fileutil.IsCSS(input) {
		return input, nil
	}

	css, err := assets.LoadStyle(input)
	if err != nil {
		return "", fmt.Errorf("loading style %q: %w", input, err)
	}
	return css, nil
}
