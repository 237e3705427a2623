package ai

import (
	"fmt"
	"strings"

	"github.com/hoanghai1803/cfeditorial/internal/models"
)

const (
	// MaxContestPageRunes bounds the contest page sent when locating the
	// editorial link.
	MaxContestPageRunes = 50000

	// MaxTutorialRunes bounds the tutorial text sent for extraction.
	MaxTutorialRunes = 150000

	// NotFoundSentinel is the reply prefix meaning "nothing matched".
	NotFoundSentinel = "NOT_FOUND"
)

const findLinkSystemPrompt = `You locate editorial links on Codeforces contest pages. Reply with a single absolute URL and nothing else, or with NOT_FOUND.`

const extractSystemPrompt = `You are an expert at analyzing competitive programming editorials. Extract and structure the solution information clearly and accurately.`

// FindEditorialLinkPrompt builds the prompts asking the model for the
// editorial link on a contest page.
func FindEditorialLinkPrompt(contestPage string) (systemPrompt string, userPrompt string) {
	var b strings.Builder
	b.WriteString("Find the editorial/tutorial/разбор link for this Codeforces contest.\n\n")
	b.WriteString("Look for: Tutorial, Editorial, Разбор, Solutions, Analysis (usually in a blog post or under \"Contest materials\").\n\n")
	b.WriteString("Return ONLY the full URL (http:// or https://), or \"NOT_FOUND\".\n\n")
	b.WriteString("Page:\n")
	b.WriteString(TruncateRunes(contestPage, MaxContestPageRunes))

	return findLinkSystemPrompt, b.String()
}

// ExtractEditorialPrompt builds the prompts asking the model to pull one
// problem's section out of a tutorial. The tutorial is truncated to
// MaxTutorialRunes.
func ExtractEditorialPrompt(tutorial string, id models.ProblemIdentifier, title string) (systemPrompt string, userPrompt string) {
	idx := id.ProblemIndex

	var b strings.Builder
	fmt.Fprintf(&b, "Extract the editorial for Problem %s (contest %s, id %s)", idx, id.ContestID, id.FullID())
	if title != "" {
		fmt.Fprintf(&b, " titled %q", title)
	}
	b.WriteString(" from this Codeforces tutorial.\n\n")

	fmt.Fprintf(&b, "Find the section marked as: %s. / %s) / Problem %s / %s / Задача %s", idx, idx, idx, id.FullID(), idx)
	if title != "" {
		fmt.Fprintf(&b, " / %q", title)
	}
	b.WriteString("\n\nLook for headings, separators (---, ##) and explicit problem mentions, case-insensitive.\n\n")

	b.WriteString("Format:\n---\n")
	fmt.Fprintf(&b, "Problem: %s\n", idx)
	fmt.Fprintf(&b, "Contest: %s\n", id.ContestID)
	if title != "" {
		fmt.Fprintf(&b, "Title: %s\n", title)
	}
	b.WriteString("---\n\n")
	b.WriteString("[Complete solution - preserve formatting, code blocks, formulas]\n\n")

	fmt.Fprintf(&b, "If not found: start with %q and list the problems you see.\n\n", NotFoundSentinel)
	b.WriteString("Tutorial:\n")
	b.WriteString(TruncateRunes(tutorial, MaxTutorialRunes))

	return extractSystemPrompt, b.String()
}

// TruncateRunes returns at most n runes of s.
func TruncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
