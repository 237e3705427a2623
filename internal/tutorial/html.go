package tutorial

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// noiseSelectors are removed before any text is read.
const noiseSelectors = "script, style, nav, footer"

// contentSelector marks the article body on Codeforces pages.
const contentSelector = "div.ttypography"

// Page is the readable part of an HTML document.
type Page struct {
	Content string
	Title   *string
}

// CleanHTML strips non-content markup from raw and returns its text, one
// text run per line, together with the page title.
func CleanHTML(raw string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	doc.Find(noiseSelectors).Remove()

	container := doc.Find(contentSelector).First()
	if container.Length() == 0 {
		container = doc.Find("body").First()
	}
	if container.Length() == 0 {
		container = doc.Selection
	}

	return &Page{
		Content: blockText(container),
		Title:   pageTitle(doc),
	}, nil
}

// blockText joins the trimmed text nodes under sel with newlines,
// skipping whitespace-only nodes.
func blockText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
			return
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func pageTitle(doc *goquery.Document) *string {
	for _, selector := range []string{"h1", "title"} {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return &text
		}
	}
	return nil
}

// byline returns the author readability finds in raw, if any.
func byline(raw, pageURL string) *string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	article, err := readability.FromReader(strings.NewReader(raw), parsed)
	if err != nil {
		slog.Debug("readability failed", "url", pageURL, "error", err)
		return nil
	}
	author := strings.TrimSpace(article.Byline)
	if author == "" {
		return nil
	}
	return &author
}
