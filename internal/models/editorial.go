package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultTTLHours is how long a cached editorial stays fresh.
const DefaultTTLHours = 168

// CodeSnippet is a fenced code block found in an editorial.
type CodeSnippet struct {
	Language    string  `json:"language"`
	Code        string  `json:"code"`
	Description *string `json:"description,omitempty"`
}

// Editorial is the solution writeup extracted for one problem.
type Editorial struct {
	ProblemID       string        `json:"problem_id"`
	SolutionText    string        `json:"solution_text"`
	SourceURL       *string       `json:"source_url"`
	ExtractedAt     time.Time     `json:"extracted_at"`
	Approach        *string       `json:"approach,omitempty"`
	Algorithm       *string       `json:"algorithm,omitempty"`
	TimeComplexity  *string       `json:"time_complexity,omitempty"`
	SpaceComplexity *string       `json:"space_complexity,omitempty"`
	CodeSnippets    []CodeSnippet `json:"code_snippets"`
	Hints           []string      `json:"hints"`
	Notes           *string       `json:"notes,omitempty"`
	AIModel         string        `json:"ai_model,omitempty"`
}

// CachedEditorial is an Editorial together with where it came from and how
// long it stays valid.
type CachedEditorial struct {
	Problem        ProblemIdentifier `json:"problem"`
	Editorial      Editorial         `json:"editorial"`
	TutorialURL    string            `json:"tutorial_url"`
	TutorialFormat TutorialFormat    `json:"tutorial_format"`
	CachedAt       time.Time         `json:"cached_at"`
	TTLHours       int               `json:"ttl_hours"`
}

// IsExpired reports whether more than TTLHours have passed since CachedAt.
func (c *CachedEditorial) IsExpired(now time.Time) bool {
	return now.Sub(c.CachedAt).Hours() > float64(c.TTLHours)
}

// MarshalCachedEditorial encodes c in the cache wire format.
func MarshalCachedEditorial(c *CachedEditorial) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding cached editorial: %w", err)
	}
	return data, nil
}

// UnmarshalCachedEditorial decodes a cache entry. Entries missing the
// problem or editorial identity are rejected as corrupt.
func UnmarshalCachedEditorial(data []byte) (*CachedEditorial, error) {
	var c CachedEditorial
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding cached editorial: %w", err)
	}
	if c.Problem.ContestID == "" || c.Problem.ProblemIndex == "" || c.Editorial.ProblemID == "" {
		return nil, fmt.Errorf("decoding cached editorial: missing problem identity")
	}
	c.TutorialFormat = ParseTutorialFormat(string(c.TutorialFormat))
	if c.TTLHours <= 0 {
		c.TTLHours = DefaultTTLHours
	}
	if c.Editorial.Hints == nil {
		c.Editorial.Hints = []string{}
	}
	return &c, nil
}
