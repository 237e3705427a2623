package models

import "fmt"

// ProblemIdentifier names a single Codeforces problem. It is a value type:
// two identifiers with equal fields are interchangeable.
type ProblemIdentifier struct {
	ContestID    string `json:"contest_id"`
	ProblemIndex string `json:"problem_index"`
	IsGym        bool   `json:"is_gym"`
}

// FullID returns the contest id followed by the problem index, e.g. "1234A".
func (p ProblemIdentifier) FullID() string {
	return p.ContestID + p.ProblemIndex
}

// CacheKey returns the key under which the problem's editorial is cached.
func (p ProblemIdentifier) CacheKey() string {
	if p.IsGym {
		return fmt.Sprintf("editorial_gym_%s_%s", p.ContestID, p.ProblemIndex)
	}
	return fmt.Sprintf("editorial_%s_%s", p.ContestID, p.ProblemIndex)
}

func (p ProblemIdentifier) String() string {
	if p.IsGym {
		return fmt.Sprintf("gym/%s/%s", p.ContestID, p.ProblemIndex)
	}
	return fmt.Sprintf("%s/%s", p.ContestID, p.ProblemIndex)
}

// ProblemData is a snapshot of a problem page.
type ProblemData struct {
	Identifier  ProblemIdentifier `json:"identifier"`
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	ContestName *string           `json:"contest_name,omitempty"`
	TimeLimit   *string           `json:"time_limit,omitempty"`
	MemoryLimit *string           `json:"memory_limit,omitempty"`
	Tags        []string          `json:"tags"`
	Description *string           `json:"description,omitempty"`
}

// CodeforcesProblem is a problem as reported by the Codeforces API.
type CodeforcesProblem struct {
	ContestID string   `json:"contest_id"`
	Index     string   `json:"id"`
	Name      string   `json:"statement"`
	Tags      []string `json:"tags"`
	Rating    *int     `json:"rating"`
}
