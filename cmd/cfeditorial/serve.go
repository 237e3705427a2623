package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/hoanghai1803/cfeditorial/internal/api"
	"github.com/hoanghai1803/cfeditorial/internal/editorial"
)

const shutdownTimeout = 10 * time.Second

var flagPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the editorial API over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&flagPort, "port", 0, "Port to listen on (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pipeline, err := editorial.Open(ctx, cfg, editorial.OpenOptions{})
	if err != nil {
		return err
	}
	defer pipeline.Close()

	fetcher := newFetcher()
	defer fetcher.Close()
	lookup := newProblemLookup(fetcher)

	port := cfg.Server.Port
	if flagPort > 0 {
		port = flagPort
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           api.NewRouter(pipeline, lookup),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr, "cache", pipeline.CacheMode().String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
