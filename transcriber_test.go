package c2md

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// fakeFetcher serves pages from memory and counts calls.
type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[string]Page
	err    error
	calls  int
	closed bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, pageURL string) (Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	page, ok := f.pages[pageURL]
	if !ok {
		return nil, ErrPageFetch
	}
	return page, nil
}

func (f *fakeFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// panicPage panics when its document is read.
type panicPage struct{}

func (panicPage) URL() string { return fixtureURL }
func (panicPage) Document(context.Context) (*goquery.Document, error) {
	panic("boom")
}

// countingPage records whether the DOM was read.
type countingPage struct {
	url   string
	reads int
}

func (p *countingPage) URL() string { return p.url }
func (p *countingPage) Document(ctx context.Context) (*goquery.Document, error) {
	p.reads++
	return NewStaticPage(p.url, "<h2>x</h2>").Document(ctx)
}

func TestTranscriber_Transcribe(t *testing.T) {
	t.Parallel()

	tr, err := NewTranscriber()
	if err != nil {
		t.Fatalf("NewTranscriber() unexpected error: %v", err)
	}

	res, err := tr.Transcribe(context.Background(), NewStaticPage(fixtureURL, loadFixture(t)))
	if err != nil {
		t.Fatalf("Transcribe() unexpected error: %v", err)
	}
	if res.Markdown != wantFixtureMarkdown {
		t.Errorf("Markdown mismatch\ngot:\n%s", res.Markdown)
	}
	if res.Record.ID != "987654" {
		t.Errorf("Record.ID = %q, want %q", res.Record.ID, "987654")
	}
	if res.HTML != "" {
		t.Error("HTML should be empty without preview")
	}
}

func TestTranscriber_Transcribe_NotWorkoutPageSkipsDOM(t *testing.T) {
	t.Parallel()

	tr, err := NewTranscriber()
	if err != nil {
		t.Fatalf("NewTranscriber() unexpected error: %v", err)
	}

	page := &countingPage{url: "https://log.concept2.com/profile/123/log"}
	_, err = tr.Transcribe(context.Background(), page)
	if !errors.Is(err, ErrNotWorkoutPage) {
		t.Fatalf("Transcribe() error = %v, want ErrNotWorkoutPage", err)
	}
	if page.reads != 0 {
		t.Errorf("DOM read %d times, want 0", page.reads)
	}
}

func TestTranscriber_Transcribe_Errors(t *testing.T) {
	t.Parallel()

	tr, err := NewTranscriber()
	if err != nil {
		t.Fatalf("NewTranscriber() unexpected error: %v", err)
	}

	if _, err := tr.Transcribe(context.Background(), nil); !errors.Is(err, ErrMissingPage) {
		t.Errorf("Transcribe(nil) error = %v, want ErrMissingPage", err)
	}

	_, err = tr.Transcribe(context.Background(), panicPage{})
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Errorf("Transcribe() with panicking page error = %v, want internal error", err)
	}
}

func TestTranscriber_Transcribe_Preview(t *testing.T) {
	t.Parallel()

	tr, err := NewTranscriber(WithPreview(true))
	if err != nil {
		t.Fatalf("NewTranscriber() unexpected error: %v", err)
	}

	res, err := tr.Transcribe(context.Background(), NewStaticPage(fixtureURL, loadFixture(t)))
	if err != nil {
		t.Fatalf("Transcribe() unexpected error: %v", err)
	}
	for _, want := range []string{"<title>4x500m Intervals</title>", "<style>", "<table>", "<th>HR</th>"} {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestTranscriber_TranscribeURL(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]Page{
		fixtureURL: NewStaticPage(fixtureURL, loadFixture(t)),
		"https://log.concept2.com/profile/123/log/1": NewStaticPage("https://log.concept2.com/login", "<form></form>"),
	}}
	tr, err := NewTranscriber(WithFetcher(fetcher))
	if err != nil {
		t.Fatalf("NewTranscriber() unexpected error: %v", err)
	}

	t.Run("workout", func(t *testing.T) {
		res, err := tr.TranscribeURL(context.Background(), fixtureURL)
		if err != nil {
			t.Fatalf("TranscribeURL() unexpected error: %v", err)
		}
		if res.Record.Title != "4x500m Intervals" {
			t.Errorf("Title = %q", res.Record.Title)
		}
	})

	t.Run("not a workout page is not fetched", func(t *testing.T) {
		before := fetcher.calls
		_, err := tr.TranscribeURL(context.Background(), "https://log.concept2.com/profile/123/log")
		if !errors.Is(err, ErrNotWorkoutPage) {
			t.Fatalf("TranscribeURL() error = %v, want ErrNotWorkoutPage", err)
		}
		if fetcher.calls != before {
			t.Error("fetcher should not be called for a non-workout address")
		}
	})

	t.Run("login redirect", func(t *testing.T) {
		_, err := tr.TranscribeURL(context.Background(), "https://log.concept2.com/profile/123/log/1")
		if !errors.Is(err, ErrNotWorkoutPage) {
			t.Errorf("TranscribeURL() error = %v, want ErrNotWorkoutPage", err)
		}
	})

	if err := tr.Close(); err != nil {
		t.Errorf("Close() unexpected error: %v", err)
	}
	if !fetcher.closed {
		t.Error("Close() should close the fetcher")
	}
}

func TestTranscriber_CustomHost(t *testing.T) {
	t.Parallel()

	tr, err := NewTranscriber(WithHost("log.example.test"))
	if err != nil {
		t.Fatalf("NewTranscriber() unexpected error: %v", err)
	}
	res, err := tr.Transcribe(context.Background(), NewStaticPage("https://log.example.test/log/9", "<h2>x</h2>"))
	if err != nil {
		t.Fatalf("Transcribe() unexpected error: %v", err)
	}
	if res.Record.ImageURL != "https://log.example.test/images/monitor/9/medium" {
		t.Errorf("ImageURL = %q", res.Record.ImageURL)
	}
}

func TestNewTranscriber_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"invalid host", []Option{WithHost("bad/host")}, ErrInvalidHost},
		{"empty host", []Option{WithHost("")}, ErrInvalidHost},
		{"missing style file", []Option{WithPreviewStyle("./does/not/exist.css")}, os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewTranscriber(tt.opts...); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewTranscriber() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveStyle(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.css")
	if err := os.WriteFile(path, []byte("td{color:red}"), 0o600); err != nil {
		t.Fatalf("writing style: %v", err)
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"file path", path, "td{color:red}", false},
		{"raw CSS", "th { font-weight: bold; }", "th { font-weight: bold; }", false},
		{"unknown name", "nope", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveStyle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveStyle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("resolveStyle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if css, err := resolveStyle(""); err != nil || css == "" {
		t.Errorf("resolveStyle(\"\") = %q, %v; want bundled style", css, err)
	}
}

func TestWithTimeout_PanicsOnInvalid(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) should panic")
		}
	}()
	WithTimeout(0)
}
