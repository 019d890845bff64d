package orchestration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/modspec/specgain/internal/aggregate"
	"github.com/modspec/specgain/internal/extract"
	"github.com/modspec/specgain/internal/logging"
	"github.com/modspec/specgain/internal/models"
	"github.com/modspec/specgain/internal/reporting"
)

// Options configures one pipeline run.
type Options struct {
	LogDir      string
	Pattern     string
	Study       string
	RoutingMode string

	FigureDir   string
	DataDir     string
	ImageFormat string
	Families    []models.MacroMapping

	SQLitePath string
	HTMLReport bool
}

// Validate checks the options that would otherwise fail late, after the
// logs have been read.
func (o Options) Validate() error {
	if o.Study == "" {
		return fmt.Errorf("study must not be empty")
	}
	if o.Pattern == "" {
		return fmt.Errorf("pattern must not be empty")
	}
	if _, err := filepath.Match(o.Pattern, ""); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", o.Pattern, err)
	}
	return reporting.ValidateImageFormat(o.ImageFormat)
}

// Runner drives extraction, aggregation and rendering.
type Runner struct {
	opts      Options
	artifacts []Artifact
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithArtifacts replaces the artifacts derived from Options.
func WithArtifacts(artifacts ...Artifact) RunnerOption {
	return func(r *Runner) {
		r.artifacts = artifacts
	}
}

// NewRunner creates a runner for opts.
func NewRunner(opts Options, options ...RunnerOption) *Runner {
	r := &Runner{opts: opts}
	r.artifacts = DefaultArtifacts(opts)
	for _, o := range options {
		o(r)
	}
	return r
}

// Result is the outcome of a run.
type Result struct {
	Report *Report
	// Written holds the paths of the artifacts that rendered successfully,
	// in artifact order.
	Written []string
}

// Run executes the pipeline once. Extraction errors wrap extract.ErrNoFiles
// or extract.ErrNoRecords when there is nothing to analyze.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	logger := logging.New("orchestration")

	if err := r.opts.Validate(); err != nil {
		return nil, err
	}

	observations, stats, err := extract.Load(r.opts.LogDir, r.opts.Pattern, r.opts.Study)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded records", "records", len(observations), "files", stats.Files, "dir", r.opts.LogDir)

	report := &Report{
		Study:  r.opts.Study,
		Stats:  stats,
		Result: aggregate.Summarize(observations, r.opts.RoutingMode),
	}
	logger.Debug("aggregated summary", "rows", len(report.Summary), "used", report.Used)

	written, err := r.render(ctx, report)
	return &Result{Report: report, Written: written}, err
}

// render runs every artifact concurrently. The artifacts write disjoint
// files; all of them run even when one fails, and the first error is returned.
func (r *Runner) render(ctx context.Context, report *Report) ([]string, error) {
	logger := logging.New("orchestration")

	for _, dir := range []string{r.opts.FigureDir, r.opts.DataDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	paths := make([]string, len(r.artifacts))
	var g errgroup.Group
	for i, a := range r.artifacts {
		i, a := i, a
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := a.Render(ctx, report)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", a.Name(), err)
			}
			paths[i] = path
			logger.Info("wrote artifact", "artifact", a.Name(), "path", path)
			return nil
		})
	}
	err := g.Wait()

	written := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			written = append(written, p)
		}
	}
	return written, err
}
