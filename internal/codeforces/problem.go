package codeforces

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hoanghai1803/cfeditorial/internal/apperr"
	"github.com/hoanghai1803/cfeditorial/internal/fetch"
	"github.com/hoanghai1803/cfeditorial/internal/models"
)

const (
	unknownTitle         = "Unknown Problem"
	descriptionParagraph = 3
)

var titlePrefix = regexp.MustCompile(`^[A-Z]\d*\.\s*`)

// FetchProblem downloads the problem page for id and parses it.
func FetchProblem(ctx context.Context, f fetch.Fetcher, id models.ProblemIdentifier) (*models.ProblemData, error) {
	url := BuildProblemURL(id)
	slog.Info("parsing problem page", "url", url)

	html, err := f.FetchText(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseProblemPage(html, id)
}

// ParseProblemPage extracts problem metadata from a problem page.
func ParseProblemPage(html string, id models.ProblemIdentifier) (*models.ProblemData, error) {
	url := BuildProblemURL(id)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, apperr.New(apperr.ErrParsing, fmt.Sprintf("failed to parse problem page %s", url), err)
	}

	data := &models.ProblemData{
		Identifier:  id,
		Title:       problemTitle(doc),
		URL:         url,
		ContestName: optionalText(doc.Find("div.breadcrumbs a").First()),
		TimeLimit:   limitText(doc.Find("div.time-limit").First()),
		MemoryLimit: limitText(doc.Find("div.memory-limit").First()),
		Tags:        problemTags(doc),
		Description: problemDescription(doc),
	}

	slog.Info("parsed problem page", "problem", id.String(), "title", data.Title)
	return data, nil
}

func problemTitle(doc *goquery.Document) string {
	sel := doc.Find("div.title").First()
	if sel.Length() == 0 {
		return unknownTitle
	}
	title := titlePrefix.ReplaceAllString(strings.TrimSpace(sel.Text()), "")
	if title == "" {
		return unknownTitle
	}
	return title
}

// limitText returns the value of a limit block without its caption, e.g.
// "2 seconds" out of "time limit per test2 seconds".
func limitText(sel *goquery.Selection) *string {
	if sel.Length() == 0 {
		return nil
	}
	clone := sel.Clone()
	clone.Find(".property-title").Remove()
	return optionalText(clone)
}

func problemTags(doc *goquery.Document) []string {
	tags := []string{}
	doc.Find("span.tag-box").Each(func(_ int, s *goquery.Selection) {
		if tag := strings.TrimSpace(s.Text()); tag != "" {
			tags = append(tags, tag)
		}
	})
	return tags
}

func problemDescription(doc *goquery.Document) *string {
	var paragraphs []string
	doc.Find("div.problem-statement p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := strings.TrimSpace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < descriptionParagraph
	})
	if len(paragraphs) == 0 {
		return nil
	}
	desc := strings.Join(paragraphs, "\n\n")
	return &desc
}

func optionalText(sel *goquery.Selection) *string {
	if sel.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return nil
	}
	return &text
}
