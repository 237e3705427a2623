package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hoanghai1803/cfeditorial/internal/editorial"
)

var (
	flagOutput     string
	flagNoCache    bool
	flagClearCache bool
	flagJSON       bool
	flagAPIKey     string
)

var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Extract the editorial for a problem URL",
	Long: `Get resolves a Codeforces problem URL, finds its tutorial and prints the
extracted solution. Results are cached unless --no-cache is given.

Examples:
  cfeditorial get https://codeforces.com/contest/1900/problem/B
  cfeditorial get https://codeforces.com/problemset/problem/1/A --json -o 1A.json
  cfeditorial get https://codeforces.com/gym/102942/problem/F --no-cache`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write the result to FILE instead of stdout")
	getCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Neither read nor write the editorial cache")
	getCmd.Flags().BoolVar(&flagClearCache, "clear-cache", false, "Clear the editorial cache before running")
	getCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the full editorial as JSON")
	getCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "AI provider API key (overrides config and environment)")
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pipeline, err := editorial.Open(ctx, cfg, editorial.OpenOptions{
		NoCache: flagNoCache,
		APIKey:  flagAPIKey,
	})
	if err != nil {
		return err
	}
	defer pipeline.Close()

	if flagClearCache {
		if err := pipeline.ClearCache(ctx); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Cache cleared")
	}

	res, err := pipeline.Run(ctx, args[0])
	if err != nil {
		return err
	}
	if res.Cached {
		fmt.Fprintln(os.Stderr, "(from cache)")
	}

	out := cmd.OutOrStdout()
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := writeResult(out, res, flagJSON); err != nil {
		return err
	}
	if flagOutput != "" {
		fmt.Fprintf(os.Stderr, "Written: %s\n", flagOutput)
	}
	return nil
}

// writeResult prints the solution text, or the whole result as indented
// JSON when asJSON is set.
func writeResult(w io.Writer, res *editorial.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	p := res.Problem
	fmt.Fprintf(w, "%s. %s\n%s\n\n", p.Identifier.FullID(), p.Title, p.URL)
	_, err := fmt.Fprintln(w, res.Editorial.SolutionText)
	return err
}
