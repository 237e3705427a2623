package editorial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hoanghai1803/cfeditorial/internal/ai"
	"github.com/hoanghai1803/cfeditorial/internal/apperr"
	"github.com/hoanghai1803/cfeditorial/internal/archive"
	"github.com/hoanghai1803/cfeditorial/internal/cache"
	"github.com/hoanghai1803/cfeditorial/internal/codeforces"
	"github.com/hoanghai1803/cfeditorial/internal/fetch"
	"github.com/hoanghai1803/cfeditorial/internal/models"
	"github.com/hoanghai1803/cfeditorial/internal/tutorial"
)

// CacheMode says whether a run may use the cache.
type CacheMode int

const (
	// CacheUnavailable means no cache is configured or connecting failed.
	CacheUnavailable CacheMode = iota
	// CacheDisabled means the caller opted out for this run.
	CacheDisabled
	// CacheEnabled means reads and writes go through the cache.
	CacheEnabled
)

func (m CacheMode) String() string {
	switch m {
	case CacheEnabled:
		return "enabled"
	case CacheDisabled:
		return "disabled"
	default:
		return "unavailable"
	}
}

// Config is resolved once per run.
type Config struct {
	CacheMode CacheMode
}

// Result is the outcome of a successful run.
type Result struct {
	Editorial *models.Editorial   `json:"editorial"`
	Problem   *models.ProblemData `json:"problem"`
	Cached    bool                `json:"cached"`
}

// RunStore persists a summary of every run.
type RunStore interface {
	RecordRun(ctx context.Context, run *models.RunRecord) (int64, error)
	RecentRuns(ctx context.Context, limit int) ([]models.RunRecord, error)
}

// Session bundles the connections a pipeline holds open.
type Session struct {
	Fetcher fetch.Fetcher
	Cache   *cache.EditorialCache // nil when no cache is available

	backend cache.Backend
}

// Close releases the session's resources.
func (s *Session) Close() error {
	var errs []error
	if s.Fetcher != nil {
		if err := s.Fetcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing fetcher: %w", err))
		}
	}
	if s.Cache != nil {
		if err := s.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing cache: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Deps are the collaborators of a Pipeline. Archiver and Runs are
// optional.
type Deps struct {
	Session   *Session
	Completer ai.Completer
	Archiver  archive.Archiver
	Runs      RunStore

	FeedURLs         []string
	FindMaxTokens    int
	ExtractMaxTokens int
}

// Pipeline turns a problem URL into an Editorial. Run may be called
// concurrently; stages within one run are strictly sequential.
type Pipeline struct {
	session    *Session
	finder     *tutorial.Finder
	normalizer *tutorial.Normalizer
	extractor  *Extractor
	archiver   archive.Archiver
	runs       RunStore
	cfg        Config
	newRunID   func() string
}

// New assembles a Pipeline. A nil session cache forces CacheUnavailable.
func New(deps Deps, cfg Config) *Pipeline {
	if deps.Session.Cache == nil {
		cfg.CacheMode = CacheUnavailable
	}
	return &Pipeline{
		session: deps.Session,
		finder: tutorial.NewFinder(deps.Session.Fetcher, deps.Completer, tutorial.FinderOptions{
			FeedURLs:  deps.FeedURLs,
			MaxTokens: deps.FindMaxTokens,
		}),
		normalizer: tutorial.NewNormalizer(deps.Session.Fetcher),
		extractor:  NewExtractor(deps.Completer, deps.ExtractMaxTokens),
		archiver:   deps.Archiver,
		runs:       deps.Runs,
		cfg:        cfg,
		newRunID:   uuid.NewString,
	}
}

// CacheMode reports the pipeline's effective cache mode.
func (p *Pipeline) CacheMode() CacheMode {
	return p.cfg.CacheMode
}

// ClearCache drops every cached editorial. It fails with apperr.ErrCache
// when the cache is not enabled.
func (p *Pipeline) ClearCache(ctx context.Context) error {
	if p.cfg.CacheMode != CacheEnabled {
		return apperr.New(apperr.ErrCache, fmt.Sprintf("cache is %s", p.cfg.CacheMode), nil)
	}
	if err := p.session.Cache.Clear(ctx); err != nil {
		return err
	}
	slog.Info("cleared editorial cache")
	return nil
}

// RecentRuns returns the latest runs, newest first. It fails with
// apperr.ErrCache when no run history is kept.
func (p *Pipeline) RecentRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	if p.runs == nil {
		return nil, apperr.New(apperr.ErrCache, "run history requires the sqlite cache backend", nil)
	}
	runs, err := p.runs.RecentRuns(ctx, limit)
	if err != nil {
		return nil, apperr.New(apperr.ErrCache, "reading run history", err)
	}
	return runs, nil
}

// Close releases the session.
func (p *Pipeline) Close() error {
	return p.session.Close()
}

// Run resolves url and returns its editorial, from the cache when a fresh
// entry exists. Domain failures keep their apperr kind; anything else is
// reported as apperr.ErrPipeline.
func (p *Pipeline) Run(ctx context.Context, url string) (res *Result, err error) {
	runID := p.newRunID()
	log := slog.With("run_id", runID)
	start := time.Now()
	record := &models.RunRecord{RunID: runID, URL: url}

	defer func() {
		if err != nil && !apperr.IsDomain(err) {
			err = apperr.New(apperr.ErrPipeline, "editorial pipeline failed", err)
		}
		p.record(ctx, log, record, start, res, err)
	}()

	log.Info("starting pipeline", "url", url, "cache", p.cfg.CacheMode.String())

	id, err := codeforces.ParseURL(url)
	if err != nil {
		return nil, err
	}
	record.Problem = id.String()
	log = log.With("problem", id.String())

	if entry := p.cacheRead(ctx, log, id); entry != nil {
		problem, err := codeforces.FetchProblem(ctx, p.session.Fetcher, id)
		if err != nil {
			return nil, err
		}
		record.TutorialURL = &entry.TutorialURL
		log.Info("served from cache", "cached_at", entry.CachedAt)
		return &Result{Editorial: &entry.Editorial, Problem: problem, Cached: true}, nil
	}

	log.Info("fetching problem")
	problem, err := codeforces.FetchProblem(ctx, p.session.Fetcher, id)
	if err != nil {
		return nil, err
	}

	log.Info("finding tutorial")
	tutorialURL, err := p.finder.FindTutorial(ctx, id)
	if err != nil {
		return nil, err
	}
	record.TutorialURL = &tutorialURL

	log.Info("normalizing tutorial", "tutorial_url", tutorialURL)
	doc, err := p.normalizer.Parse(ctx, tutorialURL)
	if err != nil {
		return nil, err
	}

	log.Info("extracting editorial", "format", doc.Format, "chars", len(doc.Content))
	ed, err := p.extractor.Extract(ctx, doc, id, problem.Title)
	if err != nil {
		return nil, err
	}

	p.archive(ctx, log, id, doc)
	p.cacheWrite(ctx, log, id, ed, doc)

	log.Info("pipeline finished", "duration", time.Since(start))
	return &Result{Editorial: ed, Problem: problem, Cached: false}, nil
}

// cacheRead returns a fresh cache entry or nil. Read failures are logged
// and count as a miss.
func (p *Pipeline) cacheRead(ctx context.Context, log *slog.Logger, id models.ProblemIdentifier) *models.CachedEditorial {
	if p.cfg.CacheMode != CacheEnabled {
		return nil
	}
	entry, err := p.session.Cache.Get(ctx, id)
	if err != nil {
		log.Warn("cache read failed", "error", err)
		return nil
	}
	if entry == nil {
		log.Debug("cache miss")
	}
	return entry
}

func (p *Pipeline) cacheWrite(ctx context.Context, log *slog.Logger, id models.ProblemIdentifier, ed *models.Editorial, doc *models.TutorialDocument) {
	if p.cfg.CacheMode != CacheEnabled {
		return
	}
	if err := p.session.Cache.Put(ctx, id, ed, doc.URL, doc.Format); err != nil {
		log.Warn("cache write failed", "error", err)
		return
	}
	log.Debug("cached editorial", "key", id.CacheKey())
}

func (p *Pipeline) archive(ctx context.Context, log *slog.Logger, id models.ProblemIdentifier, doc *models.TutorialDocument) {
	if p.archiver == nil || doc.Format != models.FormatPDF || len(doc.Raw) == 0 {
		return
	}
	key := id.CacheKey() + ".pdf"
	if err := p.archiver.Archive(ctx, key, doc.Raw, "application/pdf"); err != nil {
		log.Warn("archiving tutorial failed", "key", key, "error", err)
		return
	}
	log.Info("archived tutorial", "key", key)
}

func (p *Pipeline) record(ctx context.Context, log *slog.Logger, rec *models.RunRecord, start time.Time, res *Result, err error) {
	if p.runs == nil {
		return
	}
	rec.DurationMS = time.Since(start).Milliseconds()
	if res != nil {
		rec.Cached = res.Cached
		if res.Editorial.AIModel != "" {
			model := res.Editorial.AIModel
			rec.AIModel = &model
		}
	}
	if err != nil {
		msg := err.Error()
		rec.Error = &msg
	}
	if rec.Problem == "" {
		rec.Problem = "unknown"
	}
	if _, rerr := p.runs.RecordRun(context.WithoutCancel(ctx), rec); rerr != nil {
		log.Warn("recording run failed", "error", rerr)
	}
}
