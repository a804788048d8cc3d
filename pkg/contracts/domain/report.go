package domain

import (
	"fmt"
	"time"
)

// ReportVariant names one report layout rendered over the shared pipeline.
type ReportVariant string

const (
	ReportVariantSummary ReportVariant = "summary"
	ReportVariantYoY     ReportVariant = "yoy"
	ReportVariantDeep    ReportVariant = "deep"
)

// ReportVariants lists the supported variants.
var ReportVariants = []ReportVariant{ReportVariantSummary, ReportVariantYoY, ReportVariantDeep}

// ParseReportVariant validates a variant name.
func ParseReportVariant(s string) (ReportVariant, error) {
	for _, v := range ReportVariants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown report variant %q", s)
}

// ReportFormat defines the format of a rendered report
type ReportFormat string

const (
	ReportFormatMarkdown ReportFormat = "markdown"
	ReportFormatHTML     ReportFormat = "html"
	ReportFormatCSV      ReportFormat = "csv"
)

// Report is one rendered document ready to be written.
type Report struct {
	Variant     ReportVariant `json:"variant"`
	Format      ReportFormat  `json:"format"`
	Path        string        `json:"path"`
	Content     []byte        `json:"-"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// FileStats describes how one source file was ingested.
type FileStats struct {
	Path       string `json:"path"`
	Encoding   string `json:"encoding"`
	DateLayout string `json:"date_layout"`
	Rows       int    `json:"rows"`
	Undated    int    `json:"undated"`
}

// RunSummary reports the outcome of one report-generation run.
type RunSummary struct {
	RunID          string        `json:"run_id"`
	Files          []FileStats   `json:"files"`
	SkippedFiles   []string      `json:"skipped_files,omitempty"`
	Records        int           `json:"records"`
	ReportsWritten []string      `json:"reports_written"`
	Duration       time.Duration `json:"duration"`
}
