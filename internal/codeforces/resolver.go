// Package codeforces resolves Codeforces problem URLs and reads problem
// metadata from problem pages and the public Codeforces API.
package codeforces

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/hoanghai1803/cfeditorial/internal/apperr"
	"github.com/hoanghai1803/cfeditorial/internal/models"
)

// BaseURL is the origin used for every canonical URL.
const BaseURL = "https://codeforces.com"

var problemPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^/contest/(\d+)/problem/([A-Z]\d*)/?$`),
	regexp.MustCompile(`^/problemset/problem/(\d+)/([A-Z]\d*)/?$`),
	regexp.MustCompile(`^/gym/(\d+)/problem/([A-Z]\d*)/?$`),
}

// ParseURL resolves a problem URL into its identifier.
func ParseURL(raw string) (models.ProblemIdentifier, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return models.ProblemIdentifier{}, apperr.New(apperr.ErrURLParse, fmt.Sprintf("invalid URL %q", raw), err)
	}
	if u.Scheme == "" || u.Host == "" {
		return models.ProblemIdentifier{}, apperr.New(apperr.ErrURLParse, fmt.Sprintf("invalid URL %q: missing scheme or host", raw), nil)
	}
	if !isCodeforcesHost(u.Hostname()) {
		return models.ProblemIdentifier{}, apperr.New(apperr.ErrURLParse, fmt.Sprintf("not a Codeforces URL: %q", raw), nil)
	}

	for _, re := range problemPatterns {
		m := re.FindStringSubmatch(u.Path)
		if m == nil {
			continue
		}
		return models.ProblemIdentifier{
			ContestID:    m[1],
			ProblemIndex: m[2],
			IsGym:        strings.Contains(u.Path, "/gym/"),
		}, nil
	}

	return models.ProblemIdentifier{}, apperr.New(apperr.ErrURLParse, fmt.Sprintf("unrecognized Codeforces problem URL %q", raw), nil)
}

// ValidateURL reports whether raw is a recognized problem URL.
func ValidateURL(raw string) bool {
	_, err := ParseURL(raw)
	return err == nil
}

// BuildProblemURL returns the canonical problem page URL for id.
func BuildProblemURL(id models.ProblemIdentifier) string {
	return fmt.Sprintf("%s/%s/%s/problem/%s", BaseURL, section(id), id.ContestID, id.ProblemIndex)
}

// BuildContestURL returns the canonical contest page URL for id.
func BuildContestURL(id models.ProblemIdentifier) string {
	return fmt.Sprintf("%s/%s/%s", BaseURL, section(id), id.ContestID)
}

func section(id models.ProblemIdentifier) string {
	if id.IsGym {
		return "gym"
	}
	return "contest"
}

// isCodeforcesHost accepts codeforces.com, codeforces.ru and their
// subdomains (www, mirrors).
func isCodeforcesHost(host string) bool {
	host = strings.ToLower(host)
	for _, base := range []string{"codeforces.com", "codeforces.ru"} {
		if host == base || strings.HasSuffix(host, "."+base) {
			return true
		}
	}
	return false
}
