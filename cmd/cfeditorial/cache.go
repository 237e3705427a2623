package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hoanghai1803/cfeditorial/internal/editorial"
)

var flagHistoryLimit int

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the editorial cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached editorial",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session := editorial.OpenSession(cmd.Context(), cfg)
		defer session.Close()

		if session.Cache == nil {
			return fmt.Errorf("no cache available for backend %q", cfg.Cache.Backend)
		}
		if err := session.Cache.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Cache cleared")
		return nil
	},
}

var cacheHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent pipeline runs (sqlite backend only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := editorial.Open(cmd.Context(), cfg, editorial.OpenOptions{})
		if err != nil {
			return err
		}
		defer pipeline.Close()

		runs, err := pipeline.RecentRuns(cmd.Context(), flagHistoryLimit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheHistoryCmd)

	cacheHistoryCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of runs to show")
}
