package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"salesreport/internal/config"
	apperrors "salesreport/internal/errors"
	"salesreport/internal/infrastructure"
	"salesreport/internal/services"
)

type runOptions struct {
	configPath  string
	inputs      []string
	variant     string
	output      string
	html        string
	exportPath  string
	metricsPath string
	currentYear int
	baseYear    int
	workers     int
	logLevel    string
	trace       string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate the configured reports",
		Long: `Load every input file, normalize the records and write each configured
report. Nothing is written unless every input loads and every report renders.`,
		Example: `  # Reports from the config file
  salesreport run --config salesreport.yaml

  # One deep report from two yearly exports
  salesreport run -i 2024.csv -i 2025.csv --variant deep --output deep.md`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReports(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default: ./salesreport.yaml)")
	f.StringSliceVarP(&opts.inputs, "input", "i", nil, "input file or directory, repeatable")
	f.StringVar(&opts.variant, "variant", "", "render a single report variant (summary|yoy|deep)")
	f.StringVarP(&opts.output, "output", "o", "", "output path for --variant")
	f.StringVar(&opts.html, "html", "", "also write the --variant report as HTML")
	f.StringVar(&opts.exportPath, "export", "", "write the normalized records as CSV")
	f.StringVar(&opts.metricsPath, "metrics", "", "write run metrics in Prometheus text format")
	f.IntVar(&opts.currentYear, "current-year", 0, "reporting year (default: latest year in data)")
	f.IntVar(&opts.baseYear, "base-year", 0, "comparison year (default: current year - 1)")
	f.IntVar(&opts.workers, "workers", 0, "files loaded concurrently")
	f.StringVar(&opts.logLevel, "log-level", "", "debug|info|warn|error")
	f.StringVar(&opts.trace, "trace", "", "span exporter (none|stdout|file)")

	return cmd
}

// apply overlays the flags that were set onto cfg.
func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if len(o.inputs) > 0 {
		cfg.InputPaths = o.inputs
	}
	if o.variant != "" {
		if o.output == "" {
			return apperrors.NewConfigError("--variant requires --output", nil)
		}
		cfg.Reports = []config.ReportConfig{{Variant: o.variant, OutputPath: o.output, HTMLPath: o.html}}
	} else if o.output != "" || o.html != "" {
		return apperrors.NewConfigError("--output and --html require --variant", nil)
	}
	if f.Changed("export") {
		cfg.ExportPath = o.exportPath
	}
	if f.Changed("metrics") {
		cfg.MetricsPath = o.metricsPath
	}
	if f.Changed("current-year") {
		cfg.CurrentYear = o.currentYear
	}
	if f.Changed("base-year") {
		cfg.BaseYear = o.baseYear
	}
	if f.Changed("workers") {
		cfg.IngestWorkers = o.workers
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.trace != "" {
		cfg.Tracing.Exporter = o.trace
	}
	return nil
}

func runReports(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := opts.apply(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize logger", err)
	}

	tracing, err := infrastructure.InitializeTracing(cfg.Tracing, cmd.OutOrStdout())
	if err != nil {
		return apperrors.NewConfigError("failed to initialize tracing", err)
	}

	summary, err := services.NewReportService(cfg, logger).
		WithTracer(tracing.Tracer()).
		Run(cmd.Context())
	if serr := tracing.Shutdown(context.Background()); serr != nil {
		logger.Warn("failed to flush spans", "error", serr)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "run %s: %s records from %d files in %s\n",
		summary.RunID, humanize.Comma(int64(summary.Records)), len(summary.Files), summary.Duration)
	for _, p := range summary.SkippedFiles {
		_, _ = fmt.Fprintf(out, "  skipped %s (not found)\n", p)
	}
	for _, p := range summary.ReportsWritten {
		_, _ = fmt.Fprintf(out, "  wrote %s\n", p)
	}
	return nil
}
