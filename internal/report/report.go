package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"salesreport/internal/config"
	"salesreport/internal/dataprocessing"
	apperrors "salesreport/internal/errors"
	"salesreport/pkg/contracts/domain"
)

// Plan renders one report variant from the shared aggregates.
type Plan interface {
	Name() string
	Render(*Context) (string, error)
}

// Context carries everything a plan reads. Plans must not modify Records.
type Context struct {
	Records     []domain.SalesRecord
	CurrentYear int
	BaseYear    int
	Ranking     config.RankingConfig
	Classifier  *dataprocessing.Classifier
	GeneratedAt time.Time
	ImageDir    string
}

// NewContext builds a render context. A zero current year selects the
// latest dated year in records, a zero base year the year before current.
// The resolved base year must be before the current year.
func NewContext(records []domain.SalesRecord, cfg *config.Config, now time.Time) (*Context, error) {
	rc := &Context{
		Records:     records,
		CurrentYear: cfg.CurrentYear,
		BaseYear:    cfg.BaseYear,
		Ranking:     cfg.Ranking,
		Classifier:  dataprocessing.NewClassifier(cfg.Thresholds),
		GeneratedAt: now,
		ImageDir:    cfg.ImageDir,
	}

	if rc.CurrentYear == 0 {
		if years := dataprocessing.Years(records); len(years) > 0 {
			rc.CurrentYear = years[len(years)-1]
		} else {
			rc.CurrentYear = now.Year()
		}
	}
	if rc.BaseYear == 0 {
		rc.BaseYear = rc.CurrentYear - 1
	}
	if rc.BaseYear >= rc.CurrentYear {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("base_year %d must be before current_year %d", rc.BaseYear, rc.CurrentYear), nil).
			WithContext("current_year", rc.CurrentYear).
			WithContext("base_year", rc.BaseYear)
	}

	return rc, nil
}

// current returns the records of the current year.
func (c *Context) current(preds ...dataprocessing.Predicate) []domain.SalesRecord {
	return dataprocessing.Filter(c.Records, append([]dataprocessing.Predicate{dataprocessing.InYear(c.CurrentYear)}, preds...)...)
}

// base returns the records of the base year.
func (c *Context) base(preds ...dataprocessing.Predicate) []domain.SalesRecord {
	return dataprocessing.Filter(c.Records, append([]dataprocessing.Predicate{dataprocessing.InYear(c.BaseYear)}, preds...)...)
}

// Plans returns the plan registered for each variant.
func Plans() map[domain.ReportVariant]Plan {
	return map[domain.ReportVariant]Plan{
		domain.ReportVariantSummary: SummaryPlan{},
		domain.ReportVariantYoY:     YoYPlan{},
		domain.ReportVariantDeep:    DeepPlan{},
	}
}

// Renderer renders configured reports in memory.
type Renderer struct {
	plans  map[domain.ReportVariant]Plan
	logger *slog.Logger
}

// NewRenderer creates a renderer with every built-in plan.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		plans:  Plans(),
		logger: logger.With(slog.String("component", "renderer")),
	}
}

// Render produces the Markdown report, plus HTML when requested, for every
// configured report. Nothing is returned if any report fails.
func (r *Renderer) Render(ctx context.Context, rc *Context, reports []config.ReportConfig) ([]domain.Report, error) {
	var out []domain.Report

	for _, rep := range reports {
		variant, err := domain.ParseReportVariant(rep.Variant)
		if err != nil {
			return nil, apperrors.NewRenderError("invalid report configuration", err)
		}
		plan, ok := r.plans[variant]
		if !ok {
			return nil, apperrors.NewRenderError(fmt.Sprintf("no plan for variant %s", variant), nil)
		}

		md, err := plan.Render(rc)
		if err != nil {
			return nil, apperrors.NewRenderError(fmt.Sprintf("failed to render %s report", variant), err)
		}

		out = append(out, domain.Report{
			Variant:     variant,
			Format:      domain.ReportFormatMarkdown,
			Path:        rep.OutputPath,
			Content:     []byte(md),
			GeneratedAt: rc.GeneratedAt,
		})

		if rep.HTMLPath != "" {
			html, err := ToHTML([]byte(md), plan.Name())
			if err != nil {
				return nil, apperrors.NewRenderError(fmt.Sprintf("failed to convert %s report to html", variant), err)
			}
			out = append(out, domain.Report{
				Variant:     variant,
				Format:      domain.ReportFormatHTML,
				Path:        rep.HTMLPath,
				Content:     html,
				GeneratedAt: rc.GeneratedAt,
			})
		}

		r.logger.InfoContext(ctx, "rendered report",
			slog.String("variant", string(variant)),
			slog.Int("bytes", len(md)),
			slog.Int("current_year", rc.CurrentYear),
			slog.Int("base_year", rc.BaseYear))
	}

	return out, nil
}
