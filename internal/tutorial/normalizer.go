// Package tutorial locates a problem's tutorial and reduces it to plain
// text, whatever format it was published in.
package tutorial

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hoanghai1803/cfeditorial/internal/apperr"
	"github.com/hoanghai1803/cfeditorial/internal/fetch"
	"github.com/hoanghai1803/cfeditorial/internal/models"
)

// RenderWait is how long dynamically populated pages get to settle before
// their HTML is read.
const RenderWait = 5000 * time.Millisecond

// Normalizer turns tutorial URLs into TutorialDocuments.
type Normalizer struct {
	fetcher fetch.Fetcher
}

// NewNormalizer creates a Normalizer that downloads through f.
func NewNormalizer(f fetch.Fetcher) *Normalizer {
	return &Normalizer{fetcher: f}
}

// Parse fetches url and normalizes it. Any failure, including fetch
// failures, is reported as apperr.ErrParsing.
func (n *Normalizer) Parse(ctx context.Context, url string) (*models.TutorialDocument, error) {
	slog.Info("parsing tutorial", "url", url)

	doc, err := n.parse(ctx, url)
	if err != nil {
		slog.Error("failed to parse tutorial", "url", url, "error", err)
		return nil, apperr.New(apperr.ErrParsing, fmt.Sprintf("failed to parse tutorial %s", url), err)
	}

	slog.Info("parsed tutorial", "url", url, "format", doc.Format, "chars", len(doc.Content))
	return doc, nil
}

func (n *Normalizer) parse(ctx context.Context, url string) (*models.TutorialDocument, error) {
	contentType, err := n.fetcher.FetchContentType(ctx, url)
	if err != nil {
		return nil, err
	}

	if strings.Contains(contentType, "pdf") {
		return n.parsePDF(ctx, url)
	}
	return n.parseHTML(ctx, url)
}

func (n *Normalizer) parsePDF(ctx context.Context, url string) (*models.TutorialDocument, error) {
	data, err := n.fetcher.FetchBytes(ctx, url)
	if err != nil {
		return nil, err
	}

	content, err := ExtractPDFText(data)
	if err != nil {
		return nil, err
	}

	return &models.TutorialDocument{
		URL:     url,
		Format:  models.FormatPDF,
		Content: content,
		Raw:     data,
	}, nil
}

func (n *Normalizer) parseHTML(ctx context.Context, url string) (*models.TutorialDocument, error) {
	var (
		raw string
		err error
	)
	if needsRendering(url) {
		raw, err = n.fetcher.FetchRenderedText(ctx, url, RenderWait)
	} else {
		raw, err = n.fetcher.FetchText(ctx, url)
	}
	if err != nil {
		return nil, err
	}

	page, err := CleanHTML(raw)
	if err != nil {
		return nil, err
	}

	return &models.TutorialDocument{
		URL:     url,
		Format:  models.FormatHTML,
		Content: page.Content,
		Title:   page.Title,
		Author:  byline(raw, url),
	}, nil
}

// needsRendering reports whether url points at a page whose content is
// populated client-side.
func needsRendering(url string) bool {
	return strings.Contains(url, "/blog/") || strings.Contains(url, "/contest/")
}
