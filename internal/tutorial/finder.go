package tutorial

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/hoanghai1803/cfeditorial/internal/ai"
	"github.com/hoanghai1803/cfeditorial/internal/apperr"
	"github.com/hoanghai1803/cfeditorial/internal/codeforces"
	"github.com/hoanghai1803/cfeditorial/internal/fetch"
	"github.com/hoanghai1803/cfeditorial/internal/models"
)

const (
	// DefaultFindMaxTokens bounds the reply when asking for the link.
	DefaultFindMaxTokens = 500

	// maxSearchCandidates is how many search hits are inspected.
	maxSearchCandidates = 3
)

var blogEntryPattern = regexp.MustCompile(`href="(/blog/entry/\d+)"`)

var tutorialKeywords = []string{"tutorial", "editorial", "разбор", "analysis", "solutions"}

// FinderOptions tunes a Finder.
type FinderOptions struct {
	// FeedURLs are RSS/Atom feeds searched after the site search fails.
	FeedURLs []string

	// MaxTokens caps the link lookup reply. Zero means DefaultFindMaxTokens.
	MaxTokens int
}

// Finder locates the tutorial document for a problem.
type Finder struct {
	fetcher   fetch.Fetcher
	completer ai.Completer
	feedURLs  []string
	maxTokens int
	searchURL string
}

// NewFinder creates a Finder. completer may be nil, in which case the
// contest page strategy is skipped.
func NewFinder(f fetch.Fetcher, completer ai.Completer, opts FinderOptions) *Finder {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultFindMaxTokens
	}
	return &Finder{
		fetcher:   f,
		completer: completer,
		feedURLs:  opts.FeedURLs,
		maxTokens: maxTokens,
		searchURL: codeforces.BaseURL + "/search",
	}
}

type strategy struct {
	name string
	find func(context.Context, models.ProblemIdentifier) (string, error)
}

// FindTutorial returns the tutorial URL for id. It fails with
// apperr.ErrEditorialNotFound once every strategy has come up empty.
func (f *Finder) FindTutorial(ctx context.Context, id models.ProblemIdentifier) (string, error) {
	strategies := []strategy{
		{"contest_page", f.fromContestPage},
		{"site_search", f.fromSiteSearch},
		{"feeds", f.fromFeeds},
	}

	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		link, err := s.find(ctx, id)
		if err != nil {
			slog.Warn("tutorial strategy failed", "strategy", s.name, "problem", id.String(), "error", err)
			continue
		}
		if link != "" {
			slog.Info("found tutorial", "strategy", s.name, "problem", id.String(), "url", link)
			return link, nil
		}
		slog.Debug("tutorial strategy found nothing", "strategy", s.name, "problem", id.String())
	}

	return "", apperr.New(apperr.ErrEditorialNotFound, fmt.Sprintf("could not find tutorial for problem %s", id.FullID()), nil)
}

func (f *Finder) fromContestPage(ctx context.Context, id models.ProblemIdentifier) (string, error) {
	if f.completer == nil {
		return "", nil
	}

	contestURL := codeforces.BuildContestURL(id)
	page, err := f.fetcher.FetchText(ctx, contestURL)
	if err != nil {
		return "", fmt.Errorf("fetching contest page: %w", err)
	}

	system, prompt := ai.FindEditorialLinkPrompt(pageMarkdown(page))
	raw, err := f.completer.Complete(ctx, ai.CompletionRequest{
		System:    system,
		Prompt:    prompt,
		MaxTokens: f.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("asking for tutorial link: %w", err)
	}

	resp, ok := ai.ValidateResponse(raw).(ai.ValidResponse)
	if !ok {
		return "", fmt.Errorf("malformed link response for %s", contestURL)
	}

	reply := strings.TrimSpace(resp.Text)
	if !strings.HasPrefix(reply, "http") {
		return "", nil
	}
	return NormalizeLink(reply), nil
}

// pageMarkdown converts a contest page to Markdown, keeping links compact.
// The raw HTML is returned when conversion fails.
func pageMarkdown(page string) string {
	md, err := htmltomarkdown.ConvertString(page)
	if err != nil {
		slog.Debug("markdown conversion failed", "error", err)
		return page
	}
	return md
}

func (f *Finder) fromSiteSearch(ctx context.Context, id models.ProblemIdentifier) (string, error) {
	searchURL := fmt.Sprintf("%s?query=contest+%s+tutorial", f.searchURL, id.ContestID)
	page, err := f.fetcher.FetchText(ctx, searchURL)
	if err != nil {
		return "", fmt.Errorf("fetching search results: %w", err)
	}

	candidates := searchCandidates(page, maxSearchCandidates)
	if len(candidates) == 0 {
		return "", nil
	}

	matched := make([]bool, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxSearchCandidates)
	for i, candidate := range candidates {
		g.Go(func() error {
			body, err := f.fetcher.FetchText(gctx, candidate)
			if err != nil {
				slog.Debug("search candidate failed", "url", candidate, "error", err)
				return nil
			}
			matched[i] = strings.Contains(body, id.ProblemIndex) || strings.Contains(body, id.FullID())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	for i, ok := range matched {
		if ok {
			return candidates[i], nil
		}
	}
	return "", nil
}

// searchCandidates returns up to limit distinct blog entry URLs from a
// search results page, in page order.
func searchCandidates(page string, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range blogEntryPattern.FindAllStringSubmatch(page, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		out = append(out, codeforces.BaseURL+m[1])
		if len(out) == limit {
			break
		}
	}
	return out
}

func (f *Finder) fromFeeds(ctx context.Context, id models.ProblemIdentifier) (string, error) {
	parser := gofeed.NewParser()
	for _, feedURL := range f.feedURLs {
		body, err := f.fetcher.FetchText(ctx, feedURL)
		if err != nil {
			slog.Warn("failed to fetch feed", "url", feedURL, "error", err)
			continue
		}
		feed, err := parser.ParseString(body)
		if err != nil {
			slog.Warn("failed to parse feed", "url", feedURL, "error", err)
			continue
		}
		for _, item := range feed.Items {
			if item.Link != "" && mentionsTutorial(item.Title+"\n"+item.Description, id.ContestID) {
				return NormalizeLink(item.Link), nil
			}
		}
	}
	return "", nil
}

func mentionsTutorial(text, contestID string) bool {
	if !strings.Contains(text, contestID) {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range tutorialKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// NormalizeLink makes a link absolute on the Codeforces origin and
// upgrades it to https.
func NormalizeLink(link string) string {
	link = strings.TrimSpace(link)
	if strings.HasPrefix(link, "/") {
		link = codeforces.BaseURL + link
	}
	if rest, ok := strings.CutPrefix(link, "http://"); ok {
		link = "https://" + rest
	}
	return link
}
