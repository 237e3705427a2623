// Package handlers implements the HTTP handlers of the editorial API.
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hoanghai1803/cfeditorial/internal/apperr"
)

// writeJSON encodes v as JSON and writes it to the response with the given
// HTTP status code. Content-Type is always set to application/json.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// At this point headers are already sent; log but cannot change status.
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// writeError writes a JSON error response with the given HTTP status code.
// The response body is {"error": "message"}.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeDomainError maps err onto its HTTP status and writes it.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		slog.Warn("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeError(w, status, err.Error())
}

// urlRequest is the body of endpoints that take a problem URL.
type urlRequest struct {
	URL string `json:"url"`
}

// decodeURLRequest reads {"url": ...} and checks that it looks like a
// Codeforces link.
func decodeURLRequest(r *http.Request) (string, error) {
	var req urlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", fmt.Errorf("invalid request body: %w", err)
	}

	raw := strings.TrimSpace(req.URL)
	if raw == "" {
		return "", fmt.Errorf("url is required")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "", fmt.Errorf("url must start with http:// or https://")
	}
	if !strings.Contains(raw, "codeforces.com") && !strings.Contains(raw, "codeforces.ru") {
		return "", fmt.Errorf("url must be a codeforces.com or codeforces.ru link")
	}
	return raw, nil
}

// parseLimit reads a positive integer query parameter, falling back to def
// when it is absent and capping it at ceiling.
func parseLimit(r *http.Request, param string, def, ceiling int) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %q parameter: %w", param, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid %q parameter: must be >= 1", param)
	}
	return min(n, ceiling), nil
}
