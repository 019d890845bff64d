package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modspec/specgain/internal/config"
	"github.com/modspec/specgain/internal/reporting"
)

var (
	placeholderOutDir      string
	placeholderImageFormat string
)

func newPlaceholderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "placeholder",
		Short: "Write placeholder figures from built-in example numbers",
		Long: `Write the two specialization figures from hard-coded example accuracies
(PSK, QAM and Analog), without reading any logs.

Useful for drafting the paper layout before experiment results exist.`,
		Args: cobra.NoArgs,
		RunE: placeholderCommandE,
	}

	cmd.Flags().StringVar(&placeholderOutDir, "outdir", config.DefaultFiguresDir, "Output directory for figures")
	cmd.Flags().StringVar(&placeholderImageFormat, "image-format", config.DefaultImageFormat, "Figure format: pdf, png, svg, eps, jpg or tif")

	return cmd
}

func placeholderCommandE(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	outDir, format := cfg.Paths.Figures, cfg.ImageFormat
	if cmd.Flags().Changed("outdir") {
		outDir = placeholderOutDir
	}
	if cmd.Flags().Changed("image-format") {
		format = placeholderImageFormat
	}
	if err := reporting.ValidateImageFormat(format); err != nil {
		return err
	}

	paths, err := reporting.WritePlaceholders(outDir, format)
	if err != nil {
		return fmt.Errorf("writing placeholder figures: %w", err)
	}
	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p) //nolint:errcheck
	}
	return nil
}
