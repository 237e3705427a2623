package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hoanghai1803/cfeditorial/internal/apperr"
	"github.com/hoanghai1803/cfeditorial/internal/editorial"
	"github.com/hoanghai1803/cfeditorial/internal/models"
)

type stubService struct{}

func (stubService) Run(ctx context.Context, url string) (*editorial.Result, error) {
	return nil, apperr.New(apperr.ErrEditorialNotFound, "could not find tutorial for problem 1A", nil)
}

func (stubService) ClearCache(ctx context.Context) error { return nil }

func (stubService) CacheMode() editorial.CacheMode { return editorial.CacheDisabled }

func (stubService) RecentRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	return nil, nil
}

type stubLookup struct{}

func (stubLookup) GetProblem(ctx context.Context, id models.ProblemIdentifier) (*models.CodeforcesProblem, error) {
	return &models.CodeforcesProblem{ContestID: id.ContestID, Index: id.ProblemIndex, Name: "A+B"}, nil
}

func TestRouter(t *testing.T) {
	srv := httptest.NewServer(NewRouter(stubService{}, stubLookup{}))
	defer srv.Close()

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodPost, "/api/editorial", `{"url":"https://codeforces.com/contest/1/problem/A"}`, http.StatusNotFound},
		{http.MethodPost, "/api/problems", `{"url":"https://codeforces.com/contest/1/problem/A"}`, http.StatusOK},
		{http.MethodDelete, "/api/cache", "", http.StatusNoContent},
		{http.MethodGet, "/api/runs", "", http.StatusOK},
		{http.MethodGet, "/api/editorial", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
		{http.MethodOptions, "/api/editorial", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("building request: %v", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("got status %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestRouter_HealthReportsCacheMode(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	NewRouter(stubService{}, stubLookup{}).ServeHTTP(w, r)

	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	if got["cache"] != "disabled" {
		t.Errorf("cache = %q, want %q", got["cache"], "disabled")
	}
}
