package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/hoanghai1803/cfeditorial/internal/apperr"
	"github.com/hoanghai1803/cfeditorial/internal/fetch"
	"github.com/hoanghai1803/cfeditorial/internal/models"
)

// DefaultAPIURL is the base of the public Codeforces API.
const DefaultAPIURL = "https://codeforces.com/api"

// Client reads problem metadata from the Codeforces API.
type Client struct {
	fetcher fetch.Fetcher
	baseURL string
}

// NewClient creates a Client that issues requests through f. An empty
// baseURL selects DefaultAPIURL.
func NewClient(f fetch.Fetcher, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{fetcher: f, baseURL: baseURL}
}

// apiProblem is one entry of result.problems.
type apiProblem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Tags      []string `json:"tags"`
	Rating    *int     `json:"rating"`
}

// problemsetResponse is the envelope returned by problemset.problems.
type problemsetResponse struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  struct {
		Problems []apiProblem `json:"problems"`
	} `json:"result"`
}

// GetProblem looks id up in the full problemset listing.
func (c *Client) GetProblem(ctx context.Context, id models.ProblemIdentifier) (*models.CodeforcesProblem, error) {
	slog.Info("getting problem from codeforces api", "problem", id.String())

	problems, err := c.problemset(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range problems {
		if strconv.Itoa(p.ContestID) == id.ContestID && p.Index == id.ProblemIndex {
			tags := p.Tags
			if tags == nil {
				tags = []string{}
			}
			return &models.CodeforcesProblem{
				ContestID: strconv.Itoa(p.ContestID),
				Index:     p.Index,
				Name:      p.Name,
				Tags:      tags,
				Rating:    p.Rating,
			}, nil
		}
	}

	slog.Warn("problem not found in problemset", "problem", id.String())
	return nil, apperr.New(apperr.ErrNotFound, fmt.Sprintf("problem %s not found", id), nil)
}

func (c *Client) problemset(ctx context.Context) ([]apiProblem, error) {
	url := c.baseURL + "/problemset.problems"
	slog.Debug("fetching problemset", "url", url)

	body, err := c.fetcher.FetchBytes(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp problemsetResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperr.New(apperr.ErrNetwork, "invalid response from codeforces api", err)
	}
	if resp.Status != "OK" {
		return nil, apperr.New(apperr.ErrNetwork, fmt.Sprintf("codeforces api error: %s %s", resp.Status, resp.Comment), nil)
	}
	return resp.Result.Problems, nil
}
