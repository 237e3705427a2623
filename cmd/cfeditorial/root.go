package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hoanghai1803/cfeditorial/internal/config"
)

var (
	flagConfig  string
	flagEnvFile string
	flagVerbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cfeditorial",
	Short: "Extract Codeforces editorial solutions",
	Long: `cfeditorial locates the tutorial for a Codeforces problem, reads it
(HTML, rendered blog post or PDF) and asks an LLM to pull out the
solution for that one problem.

Usage:
  cfeditorial get https://codeforces.com/contest/1900/problem/B
  cfeditorial serve`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath(), "Path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Path to a .env file with API keys")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	// Until the config is read, only warnings and errors are shown.
	setupLogging(slog.LevelWarn)

	if err := config.LoadEnvFile(flagEnvFile); err != nil {
		return err
	}
	c, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = c

	level := cfg.SlogLevel()
	if flagVerbose {
		level = slog.LevelDebug
	}
	setupLogging(level)
	return nil
}

func setupLogging(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
