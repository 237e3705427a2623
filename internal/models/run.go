package models

import "time"

// RunRecord summarizes one pipeline run for the run history.
type RunRecord struct {
	ID          int64     `json:"id"`
	RunID       string    `json:"run_id"`
	Problem     string    `json:"problem"`
	URL         string    `json:"url"`
	TutorialURL *string   `json:"tutorial_url,omitempty"`
	Cached      bool      `json:"cached"`
	Error       *string   `json:"error,omitempty"`
	AIModel     *string   `json:"ai_model,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}
