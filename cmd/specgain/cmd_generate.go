package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modspec/specgain/internal/config"
	"github.com/modspec/specgain/internal/extract"
	"github.com/modspec/specgain/internal/orchestration"
)

var (
	generateLogDir      string
	generatePattern     string
	generateOutDir      string
	generateDataDir     string
	generateStudy       string
	generateRoutingMode string
	generateImageFormat string
	generateSQLite      string
	generateHTMLReport  bool
	generateFormat      string
)

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate LaTeX callouts, table and figures from experiment logs",
		Long: `Generate paper artifacts from experiment logs.

Reads every file in --logdir matching --pattern, keeps the records of --study,
aggregates accuracy per family, model role and routing mode, and writes:

  <datadir>/specialization_callouts.tex
  <datadir>/specialization_table.tex
  <outdir>/specialization_gain_vs_generalist.<format>
  <outdir>/family_confusion_deltas.<format>

Flags override values from .specgain.yaml, which override built-in defaults.`,
		Args: cobra.NoArgs,
		RunE: generateCommandE,
	}

	addPipelineFlags(cmd)
	cmd.Flags().StringVarP(&generateFormat, "format", "f", "table", "Console summary format: table, json or markdown")

	return cmd
}

// addPipelineFlags registers the flags shared by generate and watch.
func addPipelineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&generateLogDir, "logdir", config.DefaultLogsDir, "Directory containing experiment logs")
	f.StringVar(&generatePattern, "pattern", config.DefaultPattern, "Glob pattern for log files")
	f.StringVar(&generateOutDir, "outdir", config.DefaultFiguresDir, "Output directory for figures")
	f.StringVar(&generateDataDir, "datadir", config.DefaultDataDir, "Output directory for LaTeX data files")
	f.StringVar(&generateStudy, "study", config.DefaultStudy, "Study tag to extract")
	f.StringVar(&generateRoutingMode, "routing-mode", config.DefaultRoutingMode, "Routing mode to keep; empty keeps all modes")
	f.StringVar(&generateImageFormat, "image-format", config.DefaultImageFormat, "Figure format: pdf, png, svg, eps, jpg or tif")
	f.StringVar(&generateSQLite, "sqlite", "", "Also export the summary to this SQLite database")
	f.BoolVar(&generateHTMLReport, "html-report", false, "Also write <datadir>/specialization_report.html")
}

func generateCommandE(cmd *cobra.Command, _ []string) error {
	if err := validateSummaryFormat(generateFormat); err != nil {
		return err
	}

	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	res, err := runPipeline(cmd.Context(), opts)
	if err != nil {
		return err
	}

	return printSummary(cmd.OutOrStdout(), res, generateFormat)
}

// resolveOptions merges explicit flags over the project configuration.
func resolveOptions(cmd *cobra.Command) (orchestration.Options, error) {
	cfg, err := loadConfig()
	if err != nil {
		return orchestration.Options{}, err
	}

	opts := orchestration.Options{
		LogDir:      cfg.Paths.Logs,
		Pattern:     cfg.Paths.Pattern,
		Study:       cfg.Study,
		RoutingMode: cfg.Routing(),
		FigureDir:   cfg.Paths.Figures,
		DataDir:     cfg.Paths.Data,
		ImageFormat: cfg.ImageFormat,
		Families:    cfg.Families,
		SQLitePath:  cfg.SQLite,
		HTMLReport:  cfg.WantHTMLReport(),
	}

	flags := cmd.Flags()
	if flags.Changed("logdir") {
		opts.LogDir = generateLogDir
	}
	if flags.Changed("pattern") {
		opts.Pattern = generatePattern
	}
	if flags.Changed("outdir") {
		opts.FigureDir = generateOutDir
	}
	if flags.Changed("datadir") {
		opts.DataDir = generateDataDir
	}
	if flags.Changed("study") {
		opts.Study = generateStudy
	}
	if flags.Changed("routing-mode") {
		opts.RoutingMode = generateRoutingMode
	}
	if flags.Changed("image-format") {
		opts.ImageFormat = generateImageFormat
	}
	if flags.Changed("sqlite") {
		opts.SQLitePath = generateSQLite
	}
	if flags.Changed("html-report") {
		opts.HTMLReport = generateHTMLReport
	}

	if err := opts.Validate(); err != nil {
		return orchestration.Options{}, err
	}
	return opts, nil
}

func loadConfig() (*config.Config, error) {
	if rootConfigPath != "" {
		return config.LoadFile(rootConfigPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.Load(wd)
}

// runPipeline runs the generate pipeline once and maps "nothing to analyze"
// to *NoDataError.
func runPipeline(ctx context.Context, opts orchestration.Options) (*orchestration.Result, error) {
	res, err := orchestration.NewRunner(opts).Run(ctx)
	if errors.Is(err, extract.ErrNoFiles) || errors.Is(err, extract.ErrNoRecords) {
		return nil, &NoDataError{Err: err}
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
