package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Renderer loads a page in a browser and returns its HTML after scripts
// have run.
type Renderer interface {
	Render(ctx context.Context, url string, wait time.Duration) (string, error)
}

// ChromeRenderer renders pages in headless Chrome over the DevTools
// protocol. Each call starts and tears down its own browser.
type ChromeRenderer struct {
	userAgent string
	timeout   time.Duration
}

// NewChromeRenderer creates a ChromeRenderer. timeout bounds navigation
// plus the wait budget.
func NewChromeRenderer(userAgent string, timeout time.Duration) *ChromeRenderer {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ChromeRenderer{userAgent: userAgent, timeout: timeout}
}

// Render navigates to url, waits, and returns the document's outer HTML.
func (r *ChromeRenderer) Render(ctx context.Context, url string, wait time.Duration) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(r.userAgent),
		chromedp.Headless,
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, r.timeout+wait)
	defer cancelRun()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(wait),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", url, err)
	}
	return html, nil
}
