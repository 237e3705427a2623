package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/html/charset"

	"github.com/hoanghai1803/cfeditorial/internal/apperr"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultRetries         = 3
	defaultInitialInterval = 2 * time.Second
	defaultMaxInterval     = 10 * time.Second
	defaultMaxBodyBytes    = 32 << 20

	// DefaultUserAgent is a browser-like agent; Codeforces serves a
	// challenge page to obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	Timeout         time.Duration
	Retries         int
	UserAgent       string
	RespectRobots   bool
	Renderer        Renderer
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// MaxBodyBytes caps a response body. Larger bodies fail with
	// apperr.ErrNetwork instead of being cut short.
	MaxBodyBytes int64
}

// Compile-time interface check.
var _ Fetcher = (*Client)(nil)

// Client implements Fetcher over net/http.
type Client struct {
	client          *http.Client
	renderer        Renderer
	robots          *robotsPolicy
	userAgent       string
	retries         int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxBodyBytes    int64
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retries <= 0 {
		opts.Retries = defaultRetries
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = defaultInitialInterval
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = defaultMaxInterval
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}

	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: &userAgentTransport{
			base:      http.DefaultTransport.(*http.Transport).Clone(),
			userAgent: opts.UserAgent,
		},
	}

	c := &Client{
		client:          httpClient,
		renderer:        opts.Renderer,
		userAgent:       opts.UserAgent,
		retries:         opts.Retries,
		initialInterval: opts.InitialInterval,
		maxInterval:     opts.MaxInterval,
		maxBodyBytes:    opts.MaxBodyBytes,
	}
	if opts.RespectRobots {
		c.robots = newRobotsPolicy(httpClient, opts.UserAgent)
	}
	return c
}

// userAgentTransport wraps an http.RoundTripper to inject browser-like
// headers on every request.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	return t.base.RoundTrip(req)
}

// response is a fully read HTTP response.
type response struct {
	status int
	header http.Header
	body   []byte
}

// FetchText returns the body of url decoded to UTF-8 using the declared
// charset.
func (c *Client) FetchText(ctx context.Context, url string) (string, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}

	r, err := charset.NewReader(bytes.NewReader(resp.body), resp.header.Get("Content-Type"))
	if err != nil {
		// Unknown charset label: hand back the bytes as-is.
		return string(resp.body), nil
	}
	text, err := io.ReadAll(r)
	if err != nil {
		return "", apperr.New(apperr.ErrNetwork, fmt.Sprintf("decoding body of %s", url), err)
	}
	return string(text), nil
}

// FetchBytes returns the raw body of url.
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

// FetchContentType returns the lower-cased Content-Type of url. It asks
// with a single HEAD request and falls back to GET when the server rejects
// HEAD or omits the header.
func (c *Client) FetchContentType(ctx context.Context, url string) (string, error) {
	resp, err := c.request(ctx, http.MethodHead, url, 1)
	switch {
	case err == nil && resp.header.Get("Content-Type") != "":
		return strings.ToLower(resp.header.Get("Content-Type")), nil
	case errors.Is(err, apperr.ErrNotFound), ctx.Err() != nil:
		return "", err
	}
	slog.Debug("HEAD gave no content type, using GET", "url", url, "error", err)

	resp, err = c.get(ctx, url)
	if err != nil {
		return "", err
	}
	return strings.ToLower(resp.header.Get("Content-Type")), nil
}

// FetchRenderedText renders url in a headless browser. Without a
// configured renderer it degrades to a static fetch.
func (c *Client) FetchRenderedText(ctx context.Context, url string, wait time.Duration) (string, error) {
	if c.renderer == nil {
		slog.Debug("no renderer configured, using static fetch", "url", url)
		return c.FetchText(ctx, url)
	}
	if err := c.checkRobots(ctx, url); err != nil {
		return "", err
	}

	slog.Info("fetching url with js rendering", "url", url, "wait", wait.String())
	html, err := c.renderer.Render(ctx, url, wait)
	if err != nil {
		return "", apperr.New(apperr.ErrNetwork, fmt.Sprintf("failed to fetch %s with js rendering", url), err)
	}
	return html, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	if closer, ok := c.renderer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// get performs a GET with the configured retries.
func (c *Client) get(ctx context.Context, url string) (*response, error) {
	return c.request(ctx, http.MethodGet, url, c.retries)
}

// request performs method on url, making up to attempts tries. A 404 or a
// permanent failure stops retrying immediately.
func (c *Client) request(ctx context.Context, method, url string, attempts int) (*response, error) {
	if err := c.checkRobots(ctx, url); err != nil {
		return nil, err
	}

	var (
		result  *response
		attempt int
	)
	op := func() error {
		attempt++
		slog.Debug("fetching url", "method", method, "url", url, "attempt", attempt)

		resp, err := c.do(ctx, method, url)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		result = resp
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxInterval = c.maxInterval
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(attempts, 1)-1)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		if !apperr.IsDomain(err) {
			err = apperr.New(apperr.ErrNetwork, fmt.Sprintf("failed to fetch %s", url), err)
		}
		slog.Warn("fetch failed", "method", method, "url", url, "attempts", attempt, "error", err)
		return nil, err
	}

	slog.Debug("fetched url", "url", url, "status", result.status, "bytes", len(result.body))
	return result, nil
}

// do performs a single attempt and maps HTTP failures onto the apperr
// taxonomy.
func (c *Client) do(ctx context.Context, method, url string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, backoff.Permanent(apperr.New(apperr.ErrNetwork, fmt.Sprintf("creating request for %s", url), err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperr.New(apperr.ErrNetwork, fmt.Sprintf("failed to fetch %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperr.New(apperr.ErrNotFound, fmt.Sprintf("resource not found: %s", url), nil)
	}
	if resp.StatusCode >= 400 {
		return nil, apperr.New(apperr.ErrNetwork, fmt.Sprintf("HTTP error %d: %s", resp.StatusCode, url), nil)
	}
	if method == http.MethodHead {
		return &response{status: resp.StatusCode, header: resp.Header}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, apperr.New(apperr.ErrNetwork, fmt.Sprintf("reading body of %s", url), err)
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, backoff.Permanent(apperr.New(apperr.ErrNetwork,
			fmt.Sprintf("body of %s exceeds limit of %d bytes", url, c.maxBodyBytes), nil))
	}

	return &response{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

func (c *Client) checkRobots(ctx context.Context, url string) error {
	if c.robots == nil {
		return nil
	}
	if !c.robots.allowed(ctx, url) {
		return apperr.New(apperr.ErrNetwork, fmt.Sprintf("disallowed by robots.txt: %s", url), nil)
	}
	return nil
}
