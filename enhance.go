package c2md

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/alnah/go-c2md/internal/assets"
)

// copyBinding is the window function the injected copy button calls.
const copyBinding = "c2mdCopy"

// Icons shown on the copy button.
const (
	iconCopy  = "icon-copy"
	iconCheck = "icon-check"
)

// Enhancer opens workout pages in a visible Chrome window and adds two
// controls to their actions region: a link to the monitor image and a
// button copying the page as markdown.
type Enhancer struct {
	transcriber *Transcriber
	clipboard   *ClipboardWriter
	browser     *rodBrowser
	confirmFor  time.Duration
	logger      *slog.Logger

	injectJS   string
	stateJS    string
	fallbackJS string
}

// EnhancerOption configures an Enhancer.
type EnhancerOption func(*Enhancer)

// WithEnhancerBrowser sets the Chrome options. Default is a visible window.
func WithEnhancerBrowser(opts BrowserOptions) EnhancerOption {
	return func(e *Enhancer) {
		e.browser = newRodBrowser(opts, e.transcriber.cfg.timeout)
	}
}

// WithConfirmFor sets how long the copy button shows its confirmation.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithConfirmFor(d time.Duration) EnhancerOption {
	if d <= 0 {
		panic("c2md: WithConfirmFor duration must be positive")
	}
	return func(e *Enhancer) {
		e.confirmFor = d
	}
}

// WithClipboard sets the clipboard writer. Its fallback is replaced by the
// in-page copy of each enhanced tab.
func WithClipboard(c *ClipboardWriter) EnhancerOption {
	return func(e *Enhancer) {
		if c != nil {
			e.clipboard = c
		}
	}
}

// WithEnhancerLogger sets the diagnostic logger. Default discards.
func WithEnhancerLogger(l *slog.Logger) EnhancerOption {
	return func(e *Enhancer) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEnhancer creates an Enhancer transcribing with t.
// Chrome starts on first Open.
func NewEnhancer(t *Transcriber, opts ...EnhancerOption) *Enhancer {
	e := &Enhancer{
		transcriber: t,
		confirmFor:  DefaultConfirmFor,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		injectJS:    assets.MustLoadScript(assets.ScriptInject),
		stateJS:     assets.MustLoadScript(assets.ScriptState),
		fallbackJS:  assets.MustLoadScript(assets.ScriptFallback),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.browser == nil {
		e.browser = newRodBrowser(BrowserOptions{}, t.cfg.timeout)
	}
	if e.clipboard == nil {
		e.clipboard = NewClipboardWriter(WithClipboardLogger(e.logger))
	}
	return e
}

// Open loads pageURL and injects the controls.
// Returns ErrNotWorkoutPage before starting Chrome when the address has no
// workout identifier, and ErrNoActionsAnchor when the page has no actions
// region. Nothing is injected in either case.
func (e *Enhancer) Open(ctx context.Context, pageURL string) (*EnhancedPage, error) {
	id, err := e.transcriber.locate(pageURL)
	if err != nil {
		return nil, err
	}

	page, err := e.browser.open(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	// A login redirect lands on a page without a workout identifier.
	finalURL := pageURL
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}
	if _, err := e.transcriber.locate(finalURL); err != nil {
		_ = page.Close()
		return nil, err
	}

	ep := &EnhancedPage{
		url:         finalURL,
		page:        page,
		transcriber: e.transcriber,
		logger:      e.logger.With("workout", id),
		stateJS:     e.stateJS,
		closed:      make(chan struct{}),
	}
	ep.ctx, ep.cancel = context.WithCancel(ctx)

	if doc, err := ep.Document(ctx); err == nil && !HasActions(doc) {
		e.logger.Warn("actions region not found, nothing injected", "url", finalURL)
		ep.cancel()
		_ = page.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoActionsAnchor, finalURL)
	}

	clip := e.clipboard.withFallback(FallbackFunc(ep.fallbackCopy(e.fallbackJS)))
	ep.button = NewCopyButton(clip, ep.render, e.confirmFor)

	stop, err := page.Expose(copyBinding, ep.onCopy)
	if err != nil {
		ep.cancel()
		_ = page.Close()
		return nil, fmt.Errorf("%w: exposing copy binding: %v", ErrInjection, err)
	}
	ep.stopBinding = stop

	injected, err := page.Eval(e.injectJS, ImageURL(e.transcriber.Host(), id), LabelImage, LabelCopy, copyBinding)
	if err != nil {
		_ = ep.Close()
		return nil, fmt.Errorf("%w: %v", ErrInjection, err)
	}
	if !injected.Value.Bool() {
		e.logger.Warn("actions region not found, nothing injected", "url", finalURL)
		_ = ep.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoActionsAnchor, finalURL)
	}

	ep.watchClose(e.browser.current())
	e.logger.Info("enhanced workout page", "workout", id, "url", finalURL)
	return ep, nil
}

// Close releases browser resources.
func (e *Enhancer) Close() error {
	return e.browser.Close()
}

// EnhancedPage is a live browser tab carrying the injected controls.
// It is also a Page: its Document is a snapshot of the current DOM.
type EnhancedPage struct {
	url         string
	page        *rod.Page
	transcriber *Transcriber
	button      *CopyButton
	logger      *slog.Logger
	stateJS     string

	ctx         context.Context
	cancel      context.CancelFunc
	stopBinding func() error
	closeOnce   sync.Once
	closed      chan struct{}
}

// Compile-time interface implementation check.
var _ Page = (*EnhancedPage)(nil)

// URL returns the page address after redirects.
func (p *EnhancedPage) URL() string {
	return p.url
}

// Document snapshots the live DOM.
func (p *EnhancedPage) Document(ctx context.Context) (*goquery.Document, error) {
	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return nil, fmt.Errorf("%w: reading DOM: %v", ErrPageLoad, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageParse, err)
	}
	return doc, nil
}

// Button returns the copy button driving the injected control.
func (p *EnhancedPage) Button() *CopyButton {
	return p.button
}

// Copy transcribes the current DOM and copies the markdown, as a click on
// the injected button does.
func (p *EnhancedPage) Copy(ctx context.Context) (CopyResult, error) {
	res, err := p.transcriber.Transcribe(ctx, p)
	if err != nil {
		return CopyResult{}, err
	}
	return p.button.Press(ctx, res.Markdown)
}

// Wait blocks until the tab is closed or ctx is done.
func (p *EnhancedPage) Wait(ctx context.Context) error {
	select {
	case <-p.closed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close removes the binding and closes the tab.
func (p *EnhancedPage) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.button.Close()
		p.cancel()
		if p.stopBinding != nil {
			_ = p.stopBinding()
		}
		err = p.page.Close()
		close(p.closed)
	})
	return err
}

// onCopy is called by the injected button. The copy runs in its own
// goroutine so the browser event loop is never blocked.
func (p *EnhancedPage) onCopy(gson.JSON) (interface{}, error) {
	go func() {
		res, err := p.Copy(p.ctx)
		if errors.Is(err, ErrCopyInProgress) {
			p.logger.Debug("copy already running, click ignored")
			return
		}
		if err != nil {
			p.logger.Error("copy failed", "error", err)
			return
		}
		p.logger.Info("copied workout", "method", res.Method)
	}()
	return nil, nil
}

// render mirrors a button state change into the page.
func (p *EnhancedPage) render(s ButtonState) {
	icon := iconCopy
	if s == ButtonConfirming {
		icon = iconCheck
	}
	if _, err := p.page.Eval(p.stateJS, s.Label(), s.Disabled(), icon); err != nil {
		p.logger.Debug("updating copy button", "state", s, "error", err)
	}
}

// fallbackCopy copies through a hidden textarea in the page.
func (p *EnhancedPage) fallbackCopy(js string) func(text string) error {
	return func(text string) error {
		_, err := p.page.Eval(js, text)
		return err
	}
}

// watchClose marks the page closed when Chrome destroys its target.
func (p *EnhancedPage) watchClose(b *rod.Browser) {
	if b == nil {
		return
	}
	_ = proto.TargetSetDiscoverTargets{Discover: true}.Call(b)

	wait := b.Context(p.ctx).EachEvent(func(ev *proto.TargetTargetDestroyed) bool {
		return ev.TargetID == p.page.TargetID
	})
	go func() {
		wait()
		if p.ctx.Err() != nil {
			return
		}
		p.closeOnce.Do(func() {
			p.button.Close()
			p.cancel()
			close(p.closed)
		})
	}()
}
