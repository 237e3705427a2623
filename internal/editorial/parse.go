package editorial

import (
	"regexp"
	"strings"

	"github.com/hoanghai1803/cfeditorial/internal/models"
)

// codeFencePattern matches a fenced block whose opening and closing fences
// each start a line. The info string runs to the end of the opening line.
var codeFencePattern = regexp.MustCompile("(?ms)^[ \\t]*```([^`\\n]*)\\n(.*?)^[ \\t]*```")

const frontMatterDelim = "---"

// stripFrontMatter removes a leading front matter block from text. The
// block is stripped only when it is exactly a "---" line, one or more
// metadata lines, a closing "---" line and a single blank line. Anything
// else leaves text untouched. The result is trimmed either way.
func stripFrontMatter(text string) string {
	text = strings.TrimSpace(text)

	rest, ok := strings.CutPrefix(text, frontMatterDelim+"\n")
	if !ok {
		return text
	}

	lines := strings.Split(rest, "\n")
	i := 0
	for i < len(lines) && lines[i] != frontMatterDelim {
		i++
	}
	// Need at least one metadata line, the closing delimiter, a blank
	// line and then content that is not another blank line.
	if i == 0 || i+2 >= len(lines) {
		return text
	}
	if lines[i+1] != "" || lines[i+2] == "" {
		return text
	}

	return strings.TrimSpace(strings.Join(lines[i+2:], "\n"))
}

// extractCodeSnippets returns every closed fenced code block in order.
// Blocks with a blank body are skipped and a missing language becomes
// "text".
func extractCodeSnippets(text string) []models.CodeSnippet {
	snippets := []models.CodeSnippet{}
	for _, m := range codeFencePattern.FindAllStringSubmatch(text, -1) {
		code := strings.TrimSpace(m[2])
		if code == "" {
			continue
		}
		lang := "text"
		if info := strings.Fields(m[1]); len(info) > 0 {
			lang = info[0]
		}
		snippets = append(snippets, models.CodeSnippet{Language: lang, Code: code})
	}
	return snippets
}
