package infrastructure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"salesreport/internal/config"
)

const metricsNamespace = "salesreport"

// RunMetrics collects the counters of a single report-generation run.
// Each run owns its registry; WriteTextfile publishes it for the node
// exporter textfile collector. Stage timings are recorded through an
// OpenTelemetry meter whose Prometheus reader feeds the same registry.
type RunMetrics struct {
	registry      *prometheus.Registry
	meterProvider *sdkmetric.MeterProvider
	stageDuration metric.Float64Histogram

	RowsIngested    *prometheus.CounterVec
	FilesSkipped    prometheus.Counter
	UndatedRows     prometheus.Counter
	DummyRows       prometheus.Counter
	AliasedRows     prometheus.Counter
	ZeroCoerced     *prometheus.CounterVec
	ReportsRendered *prometheus.CounterVec
	RunDuration     prometheus.Gauge
	LastSuccess     prometheus.Gauge
}

// NewRunMetrics creates and registers the run metrics.
func NewRunMetrics() (*RunMetrics, error) {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		RowsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rows_ingested_total",
			Help:      "Source rows read per input file.",
		}, []string{"source"}),
		FilesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "files_skipped_total",
			Help:      "Configured input paths that did not exist.",
		}),
		UndatedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "undated_rows_total",
			Help:      "Rows whose date could not be parsed.",
		}),
		DummyRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dummy_rows_total",
			Help:      "Rows flagged as non-merchandise accounting lines.",
		}),
		AliasedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "aliased_rows_total",
			Help:      "Rows whose customer was consolidated by alias.",
		}),
		ZeroCoerced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "zero_coerced_values_total",
			Help:      "Non-numeric values coerced to zero, by field.",
		}, []string{"field"}),
		ReportsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reports_rendered_total",
			Help:      "Reports rendered, by variant.",
		}, []string{"variant"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}

	m.registry.MustRegister(
		m.RowsIngested,
		m.FilesSkipped,
		m.UndatedRows,
		m.DummyRows,
		m.AliasedRows,
		m.ZeroCoerced,
		m.ReportsRendered,
		m.RunDuration,
		m.LastSuccess,
	)

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(m.registry),
		otelprom.WithNamespace(metricsNamespace),
		otelprom.WithoutTargetInfo(),
		otelprom.WithoutScopeInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	m.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	meter := m.meterProvider.Meter(TracerName, metric.WithInstrumentationVersion(config.AppVersion))
	m.stageDuration, err = meter.Float64Histogram(
		"stage_duration",
		metric.WithDescription("Wall time of each pipeline stage."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stage histogram: %w", err)
	}

	return m, nil
}

// ObserveStage records how long a pipeline stage took.
func (m *RunMetrics) ObserveStage(ctx context.Context, stage string, d time.Duration) {
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

// Registry exposes the underlying registry.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// MarkSuccess records the run duration and completion time.
func (m *RunMetrics) MarkSuccess(started, finished time.Time) {
	m.RunDuration.Set(finished.Sub(started).Seconds())
	m.LastSuccess.Set(float64(finished.Unix()))
}

// WriteTextfile writes the registry in text exposition format to path.
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
