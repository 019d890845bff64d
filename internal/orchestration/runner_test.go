package orchestration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modspec/specgain/internal/extract"
	"github.com/modspec/specgain/internal/models"
	"github.com/modspec/specgain/internal/reporting"
	"github.com/modspec/specgain/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var sampleLines = []string{
	`{"study":"specialization_per_modulation_family","data":{"family":"psk","model_role":"generalist","routing_mode":"oracle","correct":true}}`,
	`{"study":"specialization_per_modulation_family","data":{"family":"psk","model_role":"generalist","routing_mode":"oracle","correct":false}}`,
	`{"study":"specialization_per_modulation_family","data":{"family":"psk","model_role":"specialist","routing_mode":"oracle","correct":true}}`,
	`{"study":"specialization_per_modulation_family","data":{"family":"psk","model_role":"specialist","routing_mode":"oracle","correct":true}}`,
	`{"study":"specialization_per_modulation_family","data":{"true_family":"qam","role":"generalist","routing":"oracle","correct":1}}`,
	`{"study":"specialization_per_modulation_family","data":{"true_family":"qam","role":"specialist","routing":"oracle","correct":0}}`,
	`{"study":"other","data":{"family":"psk","model_role":"generalist","correct":true}}`,
	`not json`,
}

func testOptions(t *testing.T) Options {
	t.Helper()
	root := t.TempDir()
	logs := filepath.Join(root, "logs")
	require.NoError(t, os.MkdirAll(logs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(logs, "metrics_1.jsonl"),
		[]byte(strings.Join(sampleLines, "\n")+"\n"), 0o644))

	return Options{
		LogDir:      logs,
		Pattern:     "metrics_*.jsonl",
		Study:       models.DefaultStudy,
		RoutingMode: "oracle",
		FigureDir:   filepath.Join(root, "figs"),
		DataDir:     filepath.Join(root, "data"),
		ImageFormat: "png",
		Families:    models.DefaultMacroMappings(),
	}
}

func TestOptionsValidate(t *testing.T) {
	base := Options{Study: "s", Pattern: "*.jsonl", ImageFormat: "pdf"}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Options)
		errMsg string
	}{
		{"empty study", func(o *Options) { o.Study = "" }, "study"},
		{"empty pattern", func(o *Options) { o.Pattern = "" }, "pattern"},
		{"bad pattern", func(o *Options) { o.Pattern = "[" }, "invalid pattern"},
		{"bad image format", func(o *Options) { o.ImageFormat = "bmp" }, "bmp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base
			tt.mutate(&o)
			err := o.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRun_EndToEnd(t *testing.T) {
	opts := testOptions(t)
	opts.HTMLReport = true
	opts.SQLitePath = filepath.Join(t.TempDir(), "summary.db")

	res, err := NewRunner(opts).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, res.Report.Stats.Accepted)
	assert.Equal(t, 6, res.Report.Used)
	assert.False(t, res.Report.FilterFallback)

	want := []string{
		filepath.Join(opts.DataDir, reporting.CalloutsFile),
		filepath.Join(opts.DataDir, reporting.TableFile),
		reporting.ChartPath(opts.FigureDir, reporting.AccuracyChartName, "png"),
		reporting.ChartPath(opts.FigureDir, reporting.GainChartName, "png"),
		filepath.Join(opts.DataDir, reporting.HTMLReportFile),
		opts.SQLitePath,
	}
	assert.Equal(t, want, res.Written)
	for _, p := range want {
		assert.FileExists(t, p)
	}

	callouts, err := os.ReadFile(filepath.Join(opts.DataDir, reporting.CalloutsFile))
	require.NoError(t, err)
	assert.Contains(t, string(callouts), `\newcommand{\PSKGeneralistAcc}{50.0}`)
	assert.Contains(t, string(callouts), `\newcommand{\PSKGain}{50.0}`)
	assert.Contains(t, string(callouts), `\newcommand{\QAMGain}{-100.0}`)

	s, err := store.Open(context.Background(), opts.SQLitePath)
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck
	rows, err := s.Summary(context.Background(), models.DefaultStudy)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestRun_Idempotent(t *testing.T) {
	opts := testOptions(t)
	runner := NewRunner(opts)

	_, err := runner.Run(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(opts.DataDir, reporting.TableFile))
	require.NoError(t, err)

	_, err = runner.Run(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(opts.DataDir, reporting.TableFile))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestRun_RoutingFallback(t *testing.T) {
	opts := testOptions(t)
	opts.RoutingMode = "predicted"

	res, err := NewRunner(opts, WithArtifacts()).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Report.FilterFallback)
	assert.Equal(t, 6, res.Report.Used)
	assert.Empty(t, res.Written)
}

func TestRun_NoData(t *testing.T) {
	t.Run("no files", func(t *testing.T) {
		opts := testOptions(t)
		opts.Pattern = "missing_*.jsonl"
		_, err := NewRunner(opts).Run(context.Background())
		require.ErrorIs(t, err, extract.ErrNoFiles)
		assert.NoDirExists(t, opts.DataDir)
	})

	t.Run("no records for study", func(t *testing.T) {
		opts := testOptions(t)
		opts.Study = "unknown_study"
		_, err := NewRunner(opts).Run(context.Background())
		require.ErrorIs(t, err, extract.ErrNoRecords)
		assert.NoDirExists(t, opts.FigureDir)
	})
}

func TestRun_AllArtifactsRunWhenOneFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	opts := testOptions(t)

	failing := NewMockArtifact(ctrl)
	failing.EXPECT().Name().Return("broken").AnyTimes()
	failing.EXPECT().Render(gomock.Any(), gomock.Any()).Return("", errors.New("disk full"))

	ok := NewMockArtifact(ctrl)
	ok.EXPECT().Name().Return("fine").AnyTimes()
	ok.EXPECT().Render(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r *Report) (string, error) {
			assert.Equal(t, models.DefaultStudy, r.Study)
			assert.NotEmpty(t, r.Summary)
			return "out/fine.tex", nil
		})

	res, err := NewRunner(opts, WithArtifacts(failing, ok)).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendering broken")
	assert.Contains(t, err.Error(), "disk full")
	require.NotNil(t, res)
	assert.Equal(t, []string{"out/fine.tex"}, res.Written)
}

func TestRun_CanceledContextSkipsRendering(t *testing.T) {
	ctrl := gomock.NewController(t)
	opts := testOptions(t)

	a := NewMockArtifact(ctrl)
	a.EXPECT().Name().Return("never").AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(opts, WithArtifacts(a)).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDefaultArtifacts(t *testing.T) {
	names := func(as []Artifact) []string {
		out := make([]string, 0, len(as))
		for _, a := range as {
			out = append(out, a.Name())
		}
		return out
	}

	assert.Equal(t,
		[]string{"callouts", "table", "accuracy-chart", "gain-chart"},
		names(DefaultArtifacts(Options{})))
	assert.Equal(t,
		[]string{"callouts", "table", "accuracy-chart", "gain-chart", "html-report", "sqlite"},
		names(DefaultArtifacts(Options{HTMLReport: true, SQLitePath: "x.db"})))
}
