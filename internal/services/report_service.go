package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"salesreport/internal/config"
	"salesreport/internal/dataprocessing"
	apperrors "salesreport/internal/errors"
	"salesreport/internal/exporter"
	"salesreport/internal/files"
	"salesreport/internal/infrastructure"
	"salesreport/internal/ingest"
	"salesreport/internal/report"
	"salesreport/pkg/contracts/domain"
)

// OutputWriter persists the outputs of a run all-or-nothing.
type OutputWriter interface {
	WriteAll(ctx context.Context, files []files.PendingFile) error
}

// ReportService runs the full pipeline: resolve inputs, load, normalize,
// render and write.
type ReportService struct {
	cfg        *config.Config
	logger     *slog.Logger
	now        func() time.Time
	tracer     trace.Tracer
	discovery  *files.Discovery
	loader     *ingest.Loader
	normalizer *dataprocessing.Normalizer
	renderer   *report.Renderer
	writer     OutputWriter
}

// NewReportService creates the service for a validated configuration.
func NewReportService(cfg *config.Config, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		cfg:        cfg,
		logger:     infrastructure.WithComponent(logger, "report_service"),
		now:        time.Now,
		tracer:     otel.Tracer(infrastructure.TracerName),
		discovery:  files.NewDiscovery(logger),
		loader:     ingest.NewLoader(cfg, logger),
		normalizer: dataprocessing.NewNormalizer(cfg.Domain, logger),
		renderer:   report.NewRenderer(logger),
		writer:     files.NewManager(logger),
	}
}

// WithWriter replaces the output writer.
func (s *ReportService) WithWriter(w OutputWriter) *ReportService {
	s.writer = w
	return s
}

// WithClock replaces the clock used for timestamps and durations.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// WithTracer replaces the tracer used for run and stage spans.
func (s *ReportService) WithTracer(t trace.Tracer) *ReportService {
	s.tracer = t
	return s
}

// stage opens a child span for one pipeline step. The returned func ends
// it and records the step duration.
func (s *ReportService) stage(ctx context.Context, metrics *infrastructure.RunMetrics, name string) (context.Context, func(error)) {
	started := time.Now()
	ctx, span := infrastructure.StartSpan(ctx, s.tracer, "report."+name, attribute.String("stage", name))
	return ctx, func(err error) {
		infrastructure.EndSpan(span, err)
		metrics.ObserveStage(ctx, name, time.Since(started))
	}
}

// Run executes one report generation. Any file, schema or render failure
// aborts the run before anything is written.
func (s *ReportService) Run(ctx context.Context) (summary *domain.RunSummary, err error) {
	started := s.now()

	ctx, span := infrastructure.StartSpan(ctx, s.tracer, "report.run",
		attribute.Int("input_paths", len(s.cfg.InputPaths)),
		attribute.Int("reports", len(s.cfg.Reports)))
	defer func() { infrastructure.EndSpan(span, err) }()

	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)
	span.SetAttributes(attribute.String("run.id", runID))

	metrics, err := infrastructure.NewRunMetrics()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to set up run metrics", err)
	}

	s.logger.InfoContext(ctx, "starting report run",
		slog.Int("input_paths", len(s.cfg.InputPaths)),
		slog.Int("reports", len(s.cfg.Reports)))

	stageCtx, end := s.stage(ctx, metrics, "resolve")
	found, skipped, err := s.discovery.Resolve(stageCtx, s.cfg.InputPaths)
	end(err)
	if err != nil {
		return nil, err
	}
	metrics.FilesSkipped.Add(float64(len(skipped)))

	paths := make([]string, len(found))
	for i, f := range found {
		paths[i] = f.Path
	}

	stageCtx, end = s.stage(ctx, metrics, "load")
	raws, stats, err := s.loader.Load(stageCtx, paths)
	end(err)
	if err != nil {
		return nil, err
	}
	for _, st := range stats {
		metrics.RowsIngested.WithLabelValues(filepath.Base(st.Path)).Add(float64(st.Rows))
	}

	stageCtx, end = s.stage(ctx, metrics, "normalize")
	records, nstats := s.normalizer.NormalizeAll(stageCtx, raws)
	end(nil)
	metrics.UndatedRows.Add(float64(nstats.Undated))
	metrics.DummyRows.Add(float64(nstats.Dummy))
	metrics.AliasedRows.Add(float64(nstats.Aliased))
	metrics.ZeroCoerced.WithLabelValues("amount").Add(float64(nstats.AmountCoerced))
	metrics.ZeroCoerced.WithLabelValues("quantity").Add(float64(nstats.QuantityCoerced))

	stageCtx, end = s.stage(ctx, metrics, "render")
	pending, written, err := s.render(stageCtx, records, started, metrics)
	end(err)
	if err != nil {
		return nil, err
	}

	stageCtx, end = s.stage(ctx, metrics, "write")
	err = s.writer.WriteAll(stageCtx, pending)
	end(err)
	if err != nil {
		return nil, err
	}

	finished := s.now()
	metrics.MarkSuccess(started, finished)
	if s.cfg.MetricsPath != "" {
		if werr := metrics.WriteTextfile(s.cfg.MetricsPath); werr != nil {
			s.logger.WarnContext(ctx, "failed to write metrics textfile",
				slog.String("path", s.cfg.MetricsPath),
				slog.String("error", werr.Error()))
		}
	}

	summary = &domain.RunSummary{
		RunID:          runID,
		Files:          stats,
		SkippedFiles:   skipped,
		Records:        len(records),
		ReportsWritten: written,
		Duration:       finished.Sub(started),
	}

	s.logger.InfoContext(ctx, "report run completed",
		slog.Int("files", len(stats)),
		slog.Int("records", summary.Records),
		slog.Int("outputs", len(written)),
		slog.Duration("duration", summary.Duration))

	return summary, nil
}

// render builds every configured report and the canonical export in memory.
func (s *ReportService) render(ctx context.Context, records []domain.SalesRecord, started time.Time, metrics *infrastructure.RunMetrics) ([]files.PendingFile, []string, error) {
	rc, err := report.NewContext(records, s.cfg, started)
	if err != nil {
		return nil, nil, err
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("current_year", rc.CurrentYear),
		attribute.Int("base_year", rc.BaseYear))

	reports, err := s.renderer.Render(ctx, rc, s.cfg.Reports)
	if err != nil {
		return nil, nil, err
	}

	pending := make([]files.PendingFile, 0, len(reports)+1)
	written := make([]string, 0, len(reports)+1)
	for _, r := range reports {
		pending = append(pending, files.PendingFile{Path: r.Path, Content: r.Content})
		written = append(written, r.Path)
		if r.Format == domain.ReportFormatMarkdown {
			metrics.ReportsRendered.WithLabelValues(string(r.Variant)).Inc()
		}
	}

	if s.cfg.ExportPath != "" {
		data, err := exporter.CanonicalCSV(records)
		if err != nil {
			return nil, nil, apperrors.NewRenderError("failed to encode canonical export", err)
		}
		pending = append(pending, files.PendingFile{Path: s.cfg.ExportPath, Content: data})
		written = append(written, s.cfg.ExportPath)
	}

	return pending, written, nil
}
