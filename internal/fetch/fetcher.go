// Package fetch retrieves web content for the editorial pipeline. Every
// call is retried with exponential backoff; a 404 surfaces as
// apperr.ErrNotFound and any other failure as apperr.ErrNetwork.
package fetch

import (
	"context"
	"time"
)

// Fetcher is the content retrieval capability the pipeline depends on.
type Fetcher interface {
	// FetchText returns the response body decoded to UTF-8.
	FetchText(ctx context.Context, url string) (string, error)

	// FetchBytes returns the raw response body.
	FetchBytes(ctx context.Context, url string) ([]byte, error)

	// FetchContentType returns the lower-cased Content-Type header.
	FetchContentType(ctx context.Context, url string) (string, error)

	// FetchRenderedText returns the page HTML after client-side scripts
	// have had wait to run.
	FetchRenderedText(ctx context.Context, url string, wait time.Duration) (string, error)

	// Close releases pooled connections.
	Close() error
}
