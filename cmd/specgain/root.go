package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modspec/specgain/internal/logging"
)

var version = "dev"

var (
	rootDebug      bool
	rootLogFormat  string
	rootConfigPath string
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specgain",
		Short: "specgain - specialization gain analysis for modulation classifiers",
		Long: `specgain turns experiment logs into paper-ready artifacts.

It reads JSON-lines metrics logs, aggregates accuracy per modulation family,
model role and routing mode, and writes LaTeX callout macros, a LaTeX table
and bar charts comparing specialist models against the generalist.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", "text", "Log format: text or json")
	cmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to a .specgain.yaml (default: search upward from the working directory)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if rootDebug {
			level = slog.LevelDebug
		}
		return logging.Init(level, rootLogFormat, cmd.ErrOrStderr())
	}

	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newPlaceholderCommand())
	cmd.AddCommand(newWatchCommand())

	return cmd
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	return rootCmd.ExecuteContext(ctx)
}
