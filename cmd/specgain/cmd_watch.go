package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/modspec/specgain/internal/logging"
	"github.com/modspec/specgain/internal/watch"
)

var watchDebounce time.Duration

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate artifacts whenever the experiment logs change",
		Long: `Run generate once, then again each time a log file matching --pattern is
created, written or renamed in --logdir. Bursts of writes are debounced.

Stops on interrupt. A missing study in the logs is not fatal while watching.`,
		Args: cobra.NoArgs,
		RunE: watchCommandE,
	}

	addPipelineFlags(cmd)
	cmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before regenerating")

	return cmd
}

func watchCommandE(cmd *cobra.Command, _ []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	logger := logging.New("cli")
	regenerate := func(ctx context.Context) error {
		res, err := runPipeline(ctx, opts)
		if err != nil {
			return err
		}
		logger.Info("regenerated artifacts", "artifacts", len(res.Written), "records", res.Report.Used)
		return nil
	}

	ctx := cmd.Context()
	if err := regenerate(ctx); err != nil {
		var noDataErr *NoDataError
		if !errors.As(err, &noDataErr) {
			return err
		}
		logger.Warn("nothing to analyze yet, waiting for logs", "error", err)
	}

	return watch.New(opts.LogDir, opts.Pattern, watchDebounce).Run(ctx, regenerate)
}
