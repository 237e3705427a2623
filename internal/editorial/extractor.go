// Package editorial pulls a single problem's solution out of a tutorial
// and drives the end-to-end pipeline from problem URL to Editorial.
package editorial

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hoanghai1803/cfeditorial/internal/ai"
	"github.com/hoanghai1803/cfeditorial/internal/apperr"
	"github.com/hoanghai1803/cfeditorial/internal/models"
)

// DefaultExtractMaxTokens caps the extraction reply.
const DefaultExtractMaxTokens = 8000

// Extractor asks an LLM for one problem's section of a tutorial and turns
// the reply into an Editorial.
type Extractor struct {
	completer ai.Completer
	maxTokens int
	now       func() time.Time
}

// NewExtractor creates an Extractor. maxTokens <= 0 selects
// DefaultExtractMaxTokens.
func NewExtractor(completer ai.Completer, maxTokens int) *Extractor {
	if maxTokens <= 0 {
		maxTokens = DefaultExtractMaxTokens
	}
	return &Extractor{completer: completer, maxTokens: maxTokens, now: time.Now}
}

// Extract returns the editorial for id found in doc. title, when not
// empty, helps the model find the right section. Every failure carries
// apperr.ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, doc *models.TutorialDocument, id models.ProblemIdentifier, title string) (*models.Editorial, error) {
	if e.completer == nil {
		return nil, apperr.New(apperr.ErrExtraction, "AI provider is not configured", nil)
	}
	model := e.completer.Model()
	if model == "" {
		return nil, apperr.New(apperr.ErrExtraction, "AI model is not configured", nil)
	}

	system, prompt := ai.ExtractEditorialPrompt(doc.Content, id, title)
	slog.Debug("requesting editorial extraction", "problem", id.String(), "model", model, "prompt_chars", len(prompt))

	raw, err := e.completer.Complete(ctx, ai.CompletionRequest{
		System:    system,
		Prompt:    prompt,
		MaxTokens: e.maxTokens,
	})
	if err != nil {
		return nil, apperr.New(apperr.ErrExtraction, fmt.Sprintf("AI request failed for problem %s", id.FullID()), err)
	}

	var text string
	switch resp := ai.ValidateResponse(raw).(type) {
	case ai.ValidResponse:
		text = resp.Text
	case ai.MalformedResponse:
		return nil, apperr.New(apperr.ErrExtraction, "malformed AI response: "+resp.Reason, nil)
	}

	if strings.HasPrefix(strings.TrimSpace(text), ai.NotFoundSentinel) {
		return nil, apperr.New(apperr.ErrExtraction, fmt.Sprintf("problem %s not found in tutorial", id.FullID()), nil)
	}

	solution := stripFrontMatter(text)
	sourceURL := doc.URL

	ed := &models.Editorial{
		ProblemID:    id.FullID(),
		SolutionText: solution,
		SourceURL:    &sourceURL,
		ExtractedAt:  e.now(),
		CodeSnippets: extractCodeSnippets(solution),
		Hints:        []string{},
		AIModel:      model,
	}

	slog.Info("extracted editorial", "problem", id.String(), "chars", len(solution), "snippets", len(ed.CodeSnippets))
	return ed, nil
}
