// Package fetchtest provides an in-memory fetch.Fetcher for tests.
package fetchtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hoanghai1803/cfeditorial/internal/apperr"
	"github.com/hoanghai1803/cfeditorial/internal/fetch"
)

// Page is a canned response.
type Page struct {
	ContentType string
	Body        []byte
	Err         error
}

// Fetcher serves canned pages by URL. Unknown URLs yield apperr.ErrNotFound.
type Fetcher struct {
	mu       sync.Mutex
	pages    map[string]Page
	rendered map[string]string
	calls    []string
	closed   bool
}

var _ fetch.Fetcher = (*Fetcher)(nil)

// New creates an empty Fetcher.
func New() *Fetcher {
	return &Fetcher{
		pages:    make(map[string]Page),
		rendered: make(map[string]string),
	}
}

// HTML registers an HTML page.
func (f *Fetcher) HTML(url, body string) *Fetcher {
	return f.Set(url, Page{ContentType: "text/html; charset=utf-8", Body: []byte(body)})
}

// Set registers an arbitrary page.
func (f *Fetcher) Set(url string, p Page) *Fetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[url] = p
	return f
}

// Rendered registers the HTML returned by FetchRenderedText for url.
func (f *Fetcher) Rendered(url, html string) *Fetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rendered[url] = html
	return f
}

// Calls returns every method call so far, formatted as "Method url".
func (f *Fetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Closed reports whether Close was called.
func (f *Fetcher) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fetcher) page(method, url string) (Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method+" "+url)

	p, ok := f.pages[url]
	if !ok {
		return Page{}, apperr.New(apperr.ErrNotFound, fmt.Sprintf("resource not found: %s", url), nil)
	}
	if p.Err != nil {
		return Page{}, p.Err
	}
	return p, nil
}

func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	p, err := f.page("FetchText", url)
	if err != nil {
		return "", err
	}
	return string(p.Body), nil
}

func (f *Fetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	p, err := f.page("FetchBytes", url)
	if err != nil {
		return nil, err
	}
	return p.Body, nil
}

func (f *Fetcher) FetchContentType(ctx context.Context, url string) (string, error) {
	p, err := f.page("FetchContentType", url)
	if err != nil {
		return "", err
	}
	return p.ContentType, nil
}

func (f *Fetcher) FetchRenderedText(ctx context.Context, url string, wait time.Duration) (string, error) {
	f.mu.Lock()
	html, ok := f.rendered[url]
	f.mu.Unlock()
	if ok {
		f.mu.Lock()
		f.calls = append(f.calls, "FetchRenderedText "+url)
		f.mu.Unlock()
		return html, nil
	}
	p, err := f.page("FetchRenderedText", url)
	if err != nil {
		return "", err
	}
	return string(p.Body), nil
}

func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
