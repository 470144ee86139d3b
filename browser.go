package c2md

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-c2md/internal/process"
)

// BrowserOptions configures the Chrome instance driven by go-rod.
type BrowserOptions struct {
	Bin         string // Chrome binary; empty = ROD_BROWSER_BIN or rod-managed Chromium
	Headless    bool
	UserDataDir string // Chrome profile; reuse one to stay logged in to the logbook
}

// rodBrowser lazily launches and owns one Chrome instance.
// Rod downloads Chromium on first run if no binary is found.
type rodBrowser struct {
	opts    BrowserOptions
	timeout time.Duration

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodBrowser(opts BrowserOptions, timeout time.Duration) *rodBrowser {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &rodBrowser{opts: opts, timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *rodBrowser) ensureBrowser() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return nil
	}

	l := launcher.New().Headless(r.opts.Headless)

	bin := r.opts.Bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	if r.opts.UserDataDir != "" {
		l = l.UserDataDir(r.opts.UserDataDir)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = b
	return nil
}

// current returns the connected browser, or nil.
func (r *rodBrowser) current() *rod.Browser {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.browser
}

// open navigates a new tab to pageURL and waits for the load event.
func (r *rodBrowser) open(ctx context.Context, pageURL string) (*rod.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			_ = page.Close()
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	return page, nil
}

// Close releases browser resources, killing the whole Chrome process tree.
func (r *rodBrowser) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}

	err := r.browser.Close()
	if r.launcher != nil {
		process.KillTree(r.launcher.PID())
		r.launcher.Kill()
	}
	r.browser = nil
	r.launcher = nil
	return err
}

// BrowserFetcher fetches pages through Chrome, so client-side rendering
// and the browser's own logbook session apply.
type BrowserFetcher struct {
	browser *rodBrowser
}

// Compile-time interface implementation check.
var _ Fetcher = (*BrowserFetcher)(nil)

// NewBrowserFetcher creates a BrowserFetcher. Chrome starts on first Fetch.
func NewBrowserFetcher(opts BrowserOptions, timeout time.Duration) *BrowserFetcher {
	return &BrowserFetcher{browser: newRodBrowser(opts, timeout)}
}

// Fetch loads the page and snapshots its rendered DOM.
func (f *BrowserFetcher) Fetch(ctx context.Context, pageURL string) (Page, error) {
	page, err := f.browser.open(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("%w: reading DOM: %v", ErrPageLoad, err)
	}

	finalURL := pageURL
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return NewStaticPage(finalURL, html), nil
}

// Close releases browser resources.
func (f *BrowserFetcher) Close() error {
	return f.browser.Close()
}
