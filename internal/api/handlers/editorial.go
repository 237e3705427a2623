package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hoanghai1803/cfeditorial/internal/editorial"
	"github.com/hoanghai1803/cfeditorial/internal/models"
)

// EditorialService is the part of the pipeline the API drives.
type EditorialService interface {
	Run(ctx context.Context, url string) (*editorial.Result, error)
	ClearCache(ctx context.Context) error
	CacheMode() editorial.CacheMode
	RecentRuns(ctx context.Context, limit int) ([]models.RunRecord, error)
}

type problemResponse struct {
	ContestID   string   `json:"contest_id"`
	ProblemID   string   `json:"problem_id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	ContestName *string  `json:"contest_name"`
	Tags        []string `json:"tags"`
	TimeLimit   *string  `json:"time_limit"`
	MemoryLimit *string  `json:"memory_limit"`
}

type editorialResponse struct {
	ProblemID    string               `json:"problem_id"`
	SolutionText string               `json:"solution_text"`
	SourceURL    *string              `json:"source_url"`
	ExtractedAt  time.Time            `json:"extracted_at"`
	CodeSnippets []models.CodeSnippet `json:"code_snippets"`
	AIModel      string               `json:"ai_model"`
}

type getEditorialResponse struct {
	Problem   problemResponse   `json:"problem"`
	Editorial editorialResponse `json:"editorial"`
	Cached    bool              `json:"cached"`
}

// GetEditorial handles POST /api/editorial. It runs the pipeline for the
// problem URL in the body.
func GetEditorial(svc EditorialService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := decodeURLRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := svc.Run(r.Context(), url)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, newEditorialResponse(res))
	}
}

func newEditorialResponse(res *editorial.Result) getEditorialResponse {
	p, ed := res.Problem, res.Editorial

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	snippets := ed.CodeSnippets
	if snippets == nil {
		snippets = []models.CodeSnippet{}
	}

	return getEditorialResponse{
		Problem: problemResponse{
			ContestID:   p.Identifier.ContestID,
			ProblemID:   p.Identifier.ProblemIndex,
			Title:       p.Title,
			URL:         p.URL,
			ContestName: p.ContestName,
			Tags:        tags,
			TimeLimit:   p.TimeLimit,
			MemoryLimit: p.MemoryLimit,
		},
		Editorial: editorialResponse{
			ProblemID:    ed.ProblemID,
			SolutionText: ed.SolutionText,
			SourceURL:    ed.SourceURL,
			ExtractedAt:  ed.ExtractedAt,
			CodeSnippets: snippets,
			AIModel:      ed.AIModel,
		},
		Cached: res.Cached,
	}
}

// ClearCache handles DELETE /api/cache.
func ClearCache(svc EditorialService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ClearCache(r.Context()); err != nil {
			writeDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetRecentRuns handles GET /api/runs?limit=N.
func GetRecentRuns(svc EditorialService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r, "limit", 20, 100)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		runs, err := svc.RecentRuns(r.Context(), limit)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		if runs == nil {
			runs = []models.RunRecord{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
	}
}

// Health handles GET /api/health.
func Health(svc EditorialService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"cache":  svc.CacheMode().String(),
		})
	}
}
