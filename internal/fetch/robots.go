package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// robotsPolicy caches one robots.txt group per host. A host whose
// robots.txt cannot be fetched or parsed is treated as allowing everything.
type robotsPolicy struct {
	client    *http.Client
	userAgent string

	mu     sync.Mutex
	groups map[string]*robotstxt.Group
}

func newRobotsPolicy(client *http.Client, userAgent string) *robotsPolicy {
	return &robotsPolicy{
		client:    client,
		userAgent: userAgent,
		groups:    make(map[string]*robotstxt.Group),
	}
}

func (p *robotsPolicy) allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}

	group := p.group(ctx, u)
	if group == nil {
		return true
	}

	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}

func (p *robotsPolicy) group(ctx context.Context, u *url.URL) *robotstxt.Group {
	p.mu.Lock()
	defer p.mu.Unlock()

	if g, ok := p.groups[u.Host]; ok {
		return g
	}

	g, err := p.load(ctx, u)
	if err != nil {
		slog.Warn("ignoring robots.txt", "host", u.Host, "error", err)
	}
	p.groups[u.Host] = g
	return g
}

func (p *robotsPolicy) load(ctx context.Context, u *url.URL) (*robotstxt.Group, error) {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating robots.txt request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching robots.txt: %w", err)
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parsing robots.txt: %w", err)
	}
	return data.FindGroup(p.userAgent), nil
}
