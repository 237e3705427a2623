package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/hoanghai1803/cfeditorial/internal/codeforces"
	"github.com/hoanghai1803/cfeditorial/internal/fetch"
)

var problemCmd = &cobra.Command{
	Use:   "problem <url>",
	Short: "Look up a problem in the Codeforces API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := codeforces.ParseURL(args[0])
		if err != nil {
			return err
		}

		fetcher := newFetcher()
		defer fetcher.Close()

		problem, err := newProblemLookup(fetcher).GetProblem(cmd.Context(), id)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(problem)
	},
}

func init() {
	rootCmd.AddCommand(problemCmd)
}

// newProblemLookup returns a client for the public Codeforces API.
func newProblemLookup(f fetch.Fetcher) *codeforces.Client {
	return codeforces.NewClient(f, codeforces.DefaultAPIURL)
}

// newFetcher builds a static fetch client from the loaded config.
func newFetcher() *fetch.Client {
	return fetch.NewClient(fetch.Options{
		Timeout:       time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		Retries:       cfg.Fetch.Retries,
		UserAgent:     cfg.Fetch.UserAgent,
		RespectRobots: cfg.Fetch.RespectRobots,
	})
}
