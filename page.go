package c2md

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxPageSize limits page HTML read from readers and responses (8MB).
const maxPageSize = 8 << 20

// Page gives read access to a rendered workout page: its address and a
// parsed DOM snapshot. Implementations must not mutate the page.
type Page interface {
	URL() string
	Document(ctx context.Context) (*goquery.Document, error)
}

// StaticPage is a Page backed by an HTML string.
type StaticPage struct {
	url  string
	html string
}

// Compile-time interface implementation check.
var _ Page = (*StaticPage)(nil)

// NewStaticPage creates a Page from already-fetched HTML.
func NewStaticPage(pageURL, html string) *StaticPage {
	return &StaticPage{url: pageURL, html: html}
}

// ReadPage reads HTML from r. When pageURL is empty, the address is taken
// from the page's canonical link or og:url meta tag, if any.
func ReadPage(r io.Reader, pageURL string) (*StaticPage, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrEmptyHTML
	}

	page := NewStaticPage(pageURL, string(data))
	if pageURL != "" {
		return page, nil
	}

	doc, err := page.Document(context.Background())
	if err != nil {
		return nil, err
	}
	page.url = CanonicalURL(doc)
	return page, nil
}

// URL returns the page address.
func (p *StaticPage) URL() string {
	return p.url
}

// HTML returns the raw page HTML.
func (p *StaticPage) HTML() string {
	return p.html
}

// Document parses the page HTML.
func (p *StaticPage) Document(ctx context.Context) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.html) == "" {
		return nil, ErrEmptyHTML
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageParse, err)
	}
	return doc, nil
}

// CanonicalURL returns the address a saved page declares for itself,
// or "" when it declares none.
func CanonicalURL(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok && strings.TrimSpace(href) != "" {
		return strings.TrimSpace(href)
	}
	if content, ok := doc.Find(`meta[property="og:url"]`).First().Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}

// HasActions reports whether the page has the region that receives the
// injected controls.
func HasActions(doc *goquery.Document) bool {
	return doc != nil && doc.Find(selActions).Length() > 0
}
