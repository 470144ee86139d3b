package c2md

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// defaultUserAgent identifies c2md to the logbook.
const defaultUserAgent = "c2md (+https://github.com/alnah/go-c2md)"

// maxErrorBody caps how much of an error response is quoted in errors.
const maxErrorBody = 512

// Fetcher retrieves a workout page by address.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (Page, error)
}

// HTTPFetcher fetches server-rendered pages over HTTP.
// The logbook only shows private workouts to their owner, so a session
// cookie can be supplied.
type HTTPFetcher struct {
	client    *http.Client
	cookie    string
	userAgent string
}

// Compile-time interface implementation check.
var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates an HTTPFetcher with the given timeout.
// cookie is sent verbatim as the Cookie header when non-empty.
func NewHTTPFetcher(timeout time.Duration, cookie, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		cookie:    cookie,
		userAgent: userAgent,
	}
}

// Fetch downloads the page. The returned Page reports the final address
// after redirects.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageFetch, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %s returned status %d: %s",
			ErrPageFetch, pageURL, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return ReadPage(resp.Body, finalURL)
}
