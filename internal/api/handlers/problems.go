package handlers

import (
	"context"
	"net/http"

	"github.com/hoanghai1803/cfeditorial/internal/codeforces"
	"github.com/hoanghai1803/cfeditorial/internal/models"
)

// ProblemLookup reads problem metadata from the Codeforces API.
type ProblemLookup interface {
	GetProblem(ctx context.Context, id models.ProblemIdentifier) (*models.CodeforcesProblem, error)
}

type getProblemResponse struct {
	*models.CodeforcesProblem
	URL string `json:"url"`
}

// GetProblem handles POST /api/problems.
func GetProblem(lookup ProblemLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := decodeURLRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		id, err := codeforces.ParseURL(url)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		problem, err := lookup.GetProblem(r.Context(), id)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		if problem.Tags == nil {
			problem.Tags = []string{}
		}

		writeJSON(w, http.StatusOK, getProblemResponse{
			CodeforcesProblem: problem,
			URL:               codeforces.BuildProblemURL(id),
		})
	}
}
