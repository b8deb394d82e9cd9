// dqcheck analyzes local CSV files without running the HTTP server.
// It prints the quality report as human-readable tables or as JSON for
// scripting.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"driftwatch/internal/analysis"
	"driftwatch/internal/config"
	"driftwatch/internal/table"
)

type analyzeOptions struct {
	baselinePath string
	jsonOutput   bool
}

func addAnalyzeFlags(fs *pflag.FlagSet, opts *analyzeOptions) {
	fs.StringVar(&opts.baselinePath, "baseline", "", "baseline CSV to compare against")
	fs.BoolVar(&opts.jsonOutput, "json", false, "emit the report as JSON")
}

func main() {
	root := &cobra.Command{
		Use:           "dqcheck",
		Short:         "Data quality profiling and drift detection for CSV files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts := &analyzeOptions{}
	analyzeCmd := &cobra.Command{
		Use:   "analyze <dataset.csv>",
		Short: "Profile a dataset and optionally compare it against a baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), args[0], opts)
		},
	}
	addAnalyzeFlags(analyzeCmd.Flags(), opts)
	root.AddCommand(analyzeCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dqcheck:", err)
		os.Exit(1)
	}
}

func runAnalyze(ctx context.Context, datasetPath string, opts *analyzeOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dataset, err := loadFile(datasetPath)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	var baseline *table.Table
	if opts.baselinePath != "" {
		baseline, err = loadFile(opts.baselinePath)
		if err != nil {
			return fmt.Errorf("load baseline: %w", err)
		}
	}

	report, err := analysis.Analyze(ctx, dataset, baseline, cfg.Analysis)
	if err != nil {
		return err
	}
	report.ID = uuid.NewString()

	if opts.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	renderReport(os.Stdout, report)
	return nil
}

func loadFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return table.LoadCSV(f)
}
