package editorial

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hoanghai1803/cfeditorial/internal/ai"
	"github.com/hoanghai1803/cfeditorial/internal/ai/aitest"
	"github.com/hoanghai1803/cfeditorial/internal/apperr"
	"github.com/hoanghai1803/cfeditorial/internal/models"
)

var problemB = models.ProblemIdentifier{ContestID: "1900", ProblemIndex: "B"}

func tutorialDoc(content string) *models.TutorialDocument {
	return &models.TutorialDocument{
		URL:     "https://codeforces.com/blog/entry/122677",
		Format:  models.FormatHTML,
		Content: content,
	}
}

func TestExtractor_Extract(t *testing.T) {
	reply := "---\nProblem: B\nContest: 1900\n---\n\nSort the array.\n```cpp\nsort(a, a + n);\n```"
	llm := aitest.New("gpt-4o", aitest.Text(reply))
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	ex := NewExtractor(llm, 0)
	ex.now = func() time.Time { return fixed }

	ed, err := ex.Extract(context.Background(), tutorialDoc("B. Sorting\nSort the array."), problemB, "Sorting")
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	wantSolution := "Sort the array.\n```cpp\nsort(a, a + n);\n```"
	if ed.SolutionText != wantSolution {
		t.Errorf("SolutionText = %q, want %q", ed.SolutionText, wantSolution)
	}
	if ed.ProblemID != "1900B" {
		t.Errorf("ProblemID = %q, want %q", ed.ProblemID, "1900B")
	}
	if ed.SourceURL == nil || *ed.SourceURL != "https://codeforces.com/blog/entry/122677" {
		t.Errorf("SourceURL = %v, want the tutorial url", ed.SourceURL)
	}
	if ed.AIModel != "gpt-4o" {
		t.Errorf("AIModel = %q, want %q", ed.AIModel, "gpt-4o")
	}
	if !ed.ExtractedAt.Equal(fixed) {
		t.Errorf("ExtractedAt = %v, want %v", ed.ExtractedAt, fixed)
	}
	if ed.Hints == nil || len(ed.Hints) != 0 {
		t.Errorf("Hints = %v, want empty non-nil", ed.Hints)
	}
	if len(ed.CodeSnippets) != 1 || ed.CodeSnippets[0].Language != "cpp" {
		t.Errorf("CodeSnippets = %+v, want one cpp snippet", ed.CodeSnippets)
	}
	if ed.Approach != nil || ed.Algorithm != nil || ed.Notes != nil {
		t.Error("optional fields must stay unset")
	}

	reqs := llm.Requests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if reqs[0].MaxTokens != DefaultExtractMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", reqs[0].MaxTokens, DefaultExtractMaxTokens)
	}
	for _, want := range []string{"1900B", "Задача B", "Sorting", ai.NotFoundSentinel, "Sort the array."} {
		if !strings.Contains(reqs[0].Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestExtractor_Extract_EmptySolution(t *testing.T) {
	ed, err := NewExtractor(aitest.New("m", aitest.Text("   ")), 0).
		Extract(context.Background(), tutorialDoc("x"), problemB, "")
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if ed.SolutionText != "" {
		t.Errorf("SolutionText = %q, want empty", ed.SolutionText)
	}
	if ed.CodeSnippets == nil {
		t.Error("CodeSnippets = nil, want empty slice")
	}
}

func TestExtractor_Extract_Failures(t *testing.T) {
	tests := []struct {
		name  string
		model string
		reply aitest.Reply
	}{
		{"no model", "", aitest.Text("solution")},
		{"not found exact", "m", aitest.Text("NOT_FOUND")},
		{"not found with reason", "m", aitest.Text("NOT_FOUND: missing")},
		{"not found after whitespace", "m", aitest.Text("   NOT_FOUND")},
		{"not found listing problems", "m", aitest.Text("  NOT_FOUND: saw A, C, D")},
		{"missing key", "m", aitest.Reply{Raw: map[string]any{"text": "x"}}},
		{"number value", "m", aitest.Reply{Raw: map[string]any{ai.ResponseKey: 42}}},
		{"list value", "m", aitest.Reply{Raw: map[string]any{ai.ResponseKey: []any{"a", "b"}}}},
		{"mapping value", "m", aitest.Reply{Raw: map[string]any{ai.ResponseKey: map[string]any{"text": "x"}}}},
		{"nil value", "m", aitest.Reply{Raw: map[string]any{ai.ResponseKey: nil}}},
		{"provider error", "m", aitest.Reply{Err: errors.New("rate limited")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := aitest.New(tt.model, tt.reply)
			ed, err := NewExtractor(llm, 0).Extract(context.Background(), tutorialDoc("x"), problemB, "")
			if !errors.Is(err, apperr.ErrExtraction) {
				t.Errorf("Extract() error = %v, want ErrExtraction", err)
			}
			if ed != nil {
				t.Errorf("Extract() editorial = %+v, want nil", ed)
			}
		})
	}
}

func TestExtractor_Extract_NilCompleter(t *testing.T) {
	_, err := NewExtractor(nil, 0).Extract(context.Background(), tutorialDoc("x"), problemB, "")
	if !errors.Is(err, apperr.ErrExtraction) {
		t.Errorf("Extract() error = %v, want ErrExtraction", err)
	}
}

func TestExtractor_Extract_SentinelOnlyAtStart(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"lower case", "not_found is a variable name", "not_found is a variable name"},
		{"mid sentence", "The result is NOT_FOUND", "The result is NOT_FOUND"},
		{"later line", "Here\nNOT_FOUND\nlater", "Here\nNOT_FOUND\nlater"},
		{"surrounding whitespace trimmed", "\n  The result is NOT_FOUND  \n", "The result is NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed, err := NewExtractor(aitest.New("m", aitest.Text(tt.reply)), 0).
				Extract(context.Background(), tutorialDoc("x"), problemB, "")
			if err != nil {
				t.Fatalf("Extract() error: %v", err)
			}
			if ed.SolutionText != tt.want {
				t.Errorf("SolutionText = %q, want %q", ed.SolutionText, tt.want)
			}
		})
	}
}
