package orchestration

//go:generate go tool mockgen -source artifacts.go -destination mock_artifact_test.go -package orchestration

import (
	"context"

	"github.com/modspec/specgain/internal/aggregate"
	"github.com/modspec/specgain/internal/extract"
	"github.com/modspec/specgain/internal/reporting"
	"github.com/modspec/specgain/internal/store"
)

// Report is the aggregated state every artifact renders from.
type Report struct {
	Study string
	Stats extract.Stats
	aggregate.Result
}

// Meta returns the report metadata shown in human-readable outputs.
func (r *Report) Meta() reporting.ReportMeta {
	return reporting.ReportMeta{
		Study:          r.Study,
		RoutingFilter:  r.Filter,
		FilterFallback: r.FilterFallback,
		Records:        r.Used,
	}
}

// Artifact is one output file produced from a Report.
type Artifact interface {
	Name() string
	// Render writes the artifact and returns the path it was written to.
	Render(ctx context.Context, report *Report) (string, error)
}

type artifactFunc struct {
	name string
	fn   func(ctx context.Context, report *Report) (string, error)
}

func (a artifactFunc) Name() string { return a.name }

func (a artifactFunc) Render(ctx context.Context, report *Report) (string, error) {
	return a.fn(ctx, report)
}

// DefaultArtifacts returns the artifacts selected by opts: callouts, table,
// both charts, and the optional HTML report and SQLite export.
func DefaultArtifacts(opts Options) []Artifact {
	artifacts := []Artifact{
		artifactFunc{name: "callouts", fn: func(_ context.Context, r *Report) (string, error) {
			return reporting.WriteCallouts(r.Summary, opts.DataDir, opts.Families)
		}},
		artifactFunc{name: "table", fn: func(_ context.Context, r *Report) (string, error) {
			return reporting.WriteTable(r.Summary, opts.DataDir)
		}},
		artifactFunc{name: "accuracy-chart", fn: func(_ context.Context, r *Report) (string, error) {
			return reporting.PlotAccuracy(r.Summary, opts.FigureDir, opts.ImageFormat)
		}},
		artifactFunc{name: "gain-chart", fn: func(_ context.Context, r *Report) (string, error) {
			return reporting.PlotGain(r.Summary, opts.FigureDir, opts.ImageFormat)
		}},
	}

	if opts.HTMLReport {
		artifacts = append(artifacts, artifactFunc{name: "html-report", fn: func(_ context.Context, r *Report) (string, error) {
			return reporting.WriteHTMLReport(r.Summary, r.Meta(), opts.DataDir)
		}})
	}

	if opts.SQLitePath != "" {
		artifacts = append(artifacts, artifactFunc{name: "sqlite", fn: func(ctx context.Context, r *Report) (string, error) {
			return opts.SQLitePath, exportSQLite(ctx, opts.SQLitePath, r)
		}})
	}
	return artifacts
}

func exportSQLite(ctx context.Context, path string, r *Report) error {
	s, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck
	return s.ReplaceSummary(ctx, r.Study, r.Summary)
}
