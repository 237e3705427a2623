package editorial

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hoanghai1803/cfeditorial/internal/ai"
	"github.com/hoanghai1803/cfeditorial/internal/archive"
	"github.com/hoanghai1803/cfeditorial/internal/cache"
	"github.com/hoanghai1803/cfeditorial/internal/config"
	"github.com/hoanghai1803/cfeditorial/internal/fetch"
)

// OpenOptions are per-invocation overrides on top of the file config.
type OpenOptions struct {
	// NoCache opts out of the cache for this pipeline.
	NoCache bool
	// APIKey, when set, replaces the configured AI key.
	APIKey string
}

// OpenSession builds the fetcher and cache connection described by cfg.
// A cache that cannot be opened is logged and left nil.
func OpenSession(ctx context.Context, cfg *config.Config) *Session {
	var renderer fetch.Renderer
	if cfg.Fetch.Render {
		renderer = fetch.NewChromeRenderer(cfg.Fetch.UserAgent, time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second)
	}
	fetcher := fetch.NewClient(fetch.Options{
		Timeout:       time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		Retries:       cfg.Fetch.Retries,
		UserAgent:     cfg.Fetch.UserAgent,
		RespectRobots: cfg.Fetch.RespectRobots,
		Renderer:      renderer,
	})

	session := &Session{Fetcher: fetcher}

	backend, err := cache.Open(ctx, cache.Options{
		Backend:    cfg.Cache.Backend,
		SQLitePath: cfg.Cache.SQLitePath,
		Redis: cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		},
	})
	switch {
	case err != nil:
		slog.Warn("cache unavailable", "backend", cfg.Cache.Backend, "error", err)
	case backend != nil:
		session.Cache = cache.NewEditorialCache(backend, cfg.Cache.TTLHours)
		session.backend = backend
	}
	return session
}

// Open builds a ready-to-run Pipeline from cfg. The caller must Close it.
func Open(ctx context.Context, cfg *config.Config, opts OpenOptions) (*Pipeline, error) {
	apiKey := cfg.AI.APIKey
	if opts.APIKey != "" {
		apiKey = opts.APIKey
	}
	completer, err := ai.NewProvider(ai.ProviderConfig{
		Provider: cfg.AI.Provider,
		APIKey:   apiKey,
		Model:    cfg.AI.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("creating AI provider: %w", err)
	}

	session := OpenSession(ctx, cfg)

	var archiver archive.Archiver
	if cfg.Archive.Enabled {
		a, err := newArchiver(ctx, cfg.Archive)
		if err != nil {
			slog.Warn("tutorial archive disabled", "error", err)
		} else {
			archiver = a
		}
	}

	// The sqlite store doubles as the run history.
	var runs RunStore
	if r, ok := session.backend.(RunStore); ok {
		runs = r
	}

	mode := CacheEnabled
	if opts.NoCache {
		mode = CacheDisabled
	}

	p := New(Deps{
		Session:          session,
		Completer:        completer,
		Archiver:         archiver,
		Runs:             runs,
		FeedURLs:         cfg.Finder.FeedURLs,
		FindMaxTokens:    cfg.AI.FindMaxTokens,
		ExtractMaxTokens: cfg.AI.ExtractMaxTokens,
	}, Config{CacheMode: mode})

	slog.Debug("pipeline ready",
		"provider", cfg.AI.Provider,
		"model", cfg.AI.Model,
		"cache", p.CacheMode().String(),
		"archive", archiver != nil,
	)
	return p, nil
}

func newArchiver(ctx context.Context, cfg config.ArchiveConfig) (*archive.MinioArchiver, error) {
	a, err := archive.NewMinioArchiver(archive.Options{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	if err := a.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return a, nil
}
