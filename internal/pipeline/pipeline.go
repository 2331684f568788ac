// Package pipeline runs fetch, build and validate as one unit for the CLI,
// the admin endpoint and the refresh worker.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/dwes123/pitch-arsenal-go/internal/arsenal"
	"github.com/dwes123/pitch-arsenal-go/internal/config"
	"github.com/dwes123/pitch-arsenal-go/internal/fetch"
	"github.com/dwes123/pitch-arsenal-go/internal/metrics"
	"github.com/dwes123/pitch-arsenal-go/internal/notification"
	"github.com/dwes123/pitch-arsenal-go/internal/output"
	"github.com/dwes123/pitch-arsenal-go/internal/store"
	"github.com/dwes123/pitch-arsenal-go/internal/validate"
)

var ErrRunInProgress = errors.New("a build is already running")

const (
	KindBuild   = "build"
	KindRefresh = "refresh"
)

type Result struct {
	Kind        string
	Build       *arsenal.Result
	Report      *validate.Report
	FetchErrors []error
	StartedAt   time.Time
	Duration    time.Duration
}

// Runner owns the single in-flight run. pool and notifier may be nil.
type Runner struct {
	cfg       *config.Config
	stats     *fetch.StatsSiteFetcher
	analytics *fetch.AnalyticsFetcher
	pool      *pgxpool.Pool
	notifier  *notification.Notifier
	now       func() time.Time

	mu sync.Mutex
}

func NewRunner(cfg *config.Config, pool *pgxpool.Pool, notifier *notification.Notifier) *Runner {
	client := fetch.NewClient(cfg.Fetch)
	return &Runner{
		cfg:       cfg,
		stats:     fetch.NewStatsSiteFetcher(client, cfg.Fetch, cfg.RawDir),
		analytics: fetch.NewAnalyticsFetcher(client, cfg.Fetch, cfg.RawDir),
		pool:      pool,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Build merges whatever is on disk into the output directory.
func (r *Runner) Build(ctx context.Context) (*Result, error) {
	if !r.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer r.mu.Unlock()

	return r.runBuild(ctx)
}

func (r *Runner) runBuild(ctx context.Context) (*Result, error) {
	res := &Result{Kind: KindBuild, StartedAt: r.now()}
	err := r.build(ctx, res)
	r.finish(ctx, res, err)
	return res, err
}

// Refresh downloads fresh exports for the target season, then builds.
// Download failures don't stop the build; it runs on what's on disk.
func (r *Runner) Refresh(ctx context.Context) (*Result, error) {
	if !r.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer r.mu.Unlock()

	return r.runRefresh(ctx)
}

func (r *Runner) runRefresh(ctx context.Context) (*Result, error) {
	res := &Result{Kind: KindRefresh, StartedAt: r.now()}
	res.FetchErrors = r.fetchAll(ctx)
	if err := ctx.Err(); err != nil {
		r.finish(ctx, res, err)
		return res, err
	}
	err := r.build(ctx, res)
	r.finish(ctx, res, err)
	return res, err
}

// Start takes the run lock and runs a refresh (or a build only, when
// withFetch is false) in the background. It returns ErrRunInProgress instead
// of waiting.
func (r *Runner) Start(ctx context.Context, withFetch bool) error {
	if !r.mu.TryLock() {
		return ErrRunInProgress
	}
	go func() {
		defer r.mu.Unlock()
		if withFetch {
			r.runRefresh(ctx)
		} else {
			r.runBuild(ctx)
		}
	}()
	return nil
}

// Running reports whether a run holds the lock.
func (r *Runner) Running() bool {
	if r.mu.TryLock() {
		r.mu.Unlock()
		return false
	}
	return true
}

func (r *Runner) fetchAll(ctx context.Context) []error {
	season, segment := r.cfg.Season, r.cfg.Segment
	var errs []error

	if _, err := r.stats.FetchPitchTypes(ctx, season, segment, nil); err != nil {
		metrics.FetchFailures.WithLabelValues("pitch_types").Inc()
		errs = append(errs, err)
	}
	if _, err := r.stats.FetchSpin(ctx, season); err != nil {
		metrics.FetchFailures.WithLabelValues("spin").Inc()
		slog.Warn("spin fetch failed", "season", season, "err", err)
		errs = append(errs, err)
	}
	if r.cfg.Fetch.AnalyticsPageURL == "" {
		slog.Info("analytics export not configured, keeping existing combined file")
	} else if _, err := r.analytics.Fetch(ctx, season); err != nil {
		metrics.FetchFailures.WithLabelValues("analytics").Inc()
		slog.Warn("analytics fetch failed", "season", season, "err", err)
		errs = append(errs, err)
	}
	return errs
}

func (r *Runner) build(ctx context.Context, res *Result) error {
	target, err := arsenal.LoadSeason(r.cfg.RawDir, r.cfg.Season, r.cfg.Segment)
	if err != nil {
		return fmt.Errorf("load season %d: %w", r.cfg.Season, err)
	}
	var fallbacks []arsenal.SeasonSources
	for _, season := range r.cfg.FallbackSeasons {
		src, err := arsenal.LoadSeason(r.cfg.RawDir, season, r.cfg.Segment)
		if err != nil {
			return fmt.Errorf("load season %d: %w", season, err)
		}
		if !src.Empty() {
			fallbacks = append(fallbacks, src)
		}
	}

	built, err := arsenal.Build(target, fallbacks, arsenal.Options{
		Segment:        r.cfg.Segment,
		FuzzyThreshold: r.cfg.FuzzyThreshold,
		Now:            r.now,
	})
	if err != nil {
		return err
	}
	res.Build = built

	if err := output.WriteAll(r.cfg.OutDir, built); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	report, err := validate.Check(r.cfg.OutDir)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	res.Report = report

	if r.pool != nil {
		if err := store.UpsertPitchers(ctx, r.pool, built.Pitchers); err != nil {
			slog.Warn("database mirror failed", "err", err)
		}
	}
	return nil
}

func (r *Runner) finish(ctx context.Context, res *Result, err error) {
	res.Duration = r.now().Sub(res.StartedAt)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.BuildRuns.WithLabelValues(res.Kind, outcome).Inc()
	metrics.BuildDuration.Set(res.Duration.Seconds())

	summary := res.Summary(r.cfg.Season, err)
	if err != nil {
		slog.Error("run failed", "kind", res.Kind, "season", r.cfg.Season, "err", err)
	} else {
		metrics.BuildPitchers.Set(float64(summary.Pitchers))
		metrics.LastBuildTimestamp.Set(float64(r.now().Unix()))
		slog.Info("run finished", "kind", res.Kind, "season", r.cfg.Season,
			"pitchers", summary.Pitchers, "pitches", summary.Pitches,
			"errors", summary.Errors, "warnings", summary.Warnings, "took", res.Duration)
	}

	if r.pool != nil {
		if logErr := store.LogBuild(ctx, r.pool, res.BuildLog(r.cfg.Season, err)); logErr != nil {
			slog.Warn("build log insert failed", "err", logErr)
		}
	}
	r.notifier.Notify(ctx, summary)
}

func (res *Result) Summary(season int, err error) notification.Summary {
	s := notification.Summary{
		Kind:          res.Kind,
		Season:        season,
		FetchFailures: len(res.FetchErrors),
		Duration:      res.Duration,
		Err:           err,
	}
	if res.Build != nil {
		s.CombinedSeason = res.Build.CombinedSeason
		s.Pitchers = res.Build.Stats.Pitchers
		s.Pitches = res.Build.Stats.Pitches
	}
	if res.Report != nil {
		s.Errors = res.Report.Errors()
		s.Warnings = res.Report.Warnings()
	}
	return s
}

func (res *Result) BuildLog(season int, err error) store.BuildLog {
	s := res.Summary(season, err)
	b := store.BuildLog{
		Kind:           res.Kind,
		Season:         season,
		CombinedSeason: s.CombinedSeason,
		Pitchers:       s.Pitchers,
		Pitches:        s.Pitches,
		Warnings:       s.Warnings,
		Status:         "completed",
		StartedAt:      res.StartedAt,
	}
	if err != nil {
		b.Status = "failed"
		b.ErrorMessage = err.Error()
	} else if s.Errors > 0 {
		b.Status = "invalid"
	}
	return b
}

// Render prints the build statistics as a table.
func (res *Result) Render(w io.Writer) {
	if res.Build == nil {
		return
	}
	st := res.Build.Stats

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("%s %d (combined %d)", res.Kind, res.Build.Season, res.Build.CombinedSeason))
	t.AppendRows([]table.Row{
		{"combined rows", st.Rows},
		{"skipped rows", st.Skipped},
		{"unknown pitch types", st.UnknownPitch},
		{"pitchers", st.Pitchers},
		{"pitches", st.Pitches},
		{"enrichment from fallback", st.EnrichmentFallback},
		{"spin from fallback", st.SpinFallback},
	})
	for _, k := range sortedKeys(st.EnrichmentMatches) {
		t.AppendRow(table.Row{"enrichment by " + k, st.EnrichmentMatches[k]})
	}
	for _, k := range sortedKeys(st.SpinMatches) {
		t.AppendRow(table.Row{"spin by " + k, st.SpinMatches[k]})
	}
	if len(res.FetchErrors) > 0 {
		t.AppendRow(table.Row{"failed downloads", len(res.FetchErrors)})
	}
	t.Render()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
