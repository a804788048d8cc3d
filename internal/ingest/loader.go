package ingest

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"salesreport/internal/config"
	"salesreport/pkg/contracts/domain"
)

// Loader reads source files into raw records.
type Loader struct {
	columns config.ColumnConfig
	layouts []string
	sheet   string
	workers int
	logger  *slog.Logger
}

// NewLoader creates a loader from the ingestion settings of cfg.
func NewLoader(cfg *config.Config, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.IngestWorkers
	if workers < 1 {
		workers = 1
	}
	return &Loader{
		columns: cfg.Columns,
		layouts: cfg.DateLayouts,
		sheet:   cfg.Sheet,
		workers: workers,
		logger:  logger.With(slog.String("component", "loader")),
	}
}

// Load reads every file and concatenates the records in input order.
// Any file-level failure aborts the whole load.
func (l *Loader) Load(ctx context.Context, paths []string) ([]domain.RawRecord, []domain.FileStats, error) {
	batches := make([][]domain.RawRecord, len(paths))
	stats := make([]domain.FileStats, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, st, err := l.LoadFile(ctx, path)
			if err != nil {
				return err
			}
			batches[i] = records
			stats[i] = st
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	total := 0
	for _, b := range batches {
		total += len(b)
	}
	records := make([]domain.RawRecord, 0, total)
	for _, b := range batches {
		records = append(records, b...)
	}

	return records, stats, nil
}

// LoadFile reads a single file and resolves its dates.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]domain.RawRecord, domain.FileStats, error) {
	table, err := ReadTable(path, l.sheet)
	if err != nil {
		return nil, domain.FileStats{}, err
	}

	idx, err := table.Columns(l.columns.Required())
	if err != nil {
		return nil, domain.FileStats{}, err
	}

	dateCol := idx[l.columns.Date]
	dateText := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		dateText[i] = Cell(row, dateCol)
	}
	dates, layout := ResolveDates(dateText, l.layouts)

	records := make([]domain.RawRecord, len(table.Rows))
	undated := 0
	for i, row := range table.Rows {
		if dates[i].IsZero() {
			undated++
		}
		records[i] = domain.RawRecord{
			Source:        path,
			Line:          i + 1,
			DateText:      dateText[i],
			Date:          dates[i],
			Customer:      Cell(row, idx[l.columns.Customer]),
			Item:          Cell(row, idx[l.columns.Item]),
			CustomerGroup: Cell(row, idx[l.columns.CustomerGroup]),
			Amount:        Cell(row, idx[l.columns.Amount]),
			Quantity:      Cell(row, idx[l.columns.Quantity]),
		}
	}

	st := domain.FileStats{
		Path:       path,
		Encoding:   table.Encoding,
		DateLayout: layout,
		Rows:       len(records),
		Undated:    undated,
	}

	attrs := []any{
		slog.String("file", path),
		slog.String("encoding", st.Encoding),
		slog.String("date_layout", layout),
		slog.Int("rows", st.Rows),
		slog.Int("undated", undated),
	}
	if layout == "" && len(records) > 0 {
		l.logger.WarnContext(ctx, "no date layout matched, dates left empty", attrs...)
	} else {
		l.logger.InfoContext(ctx, "loaded source file", attrs...)
	}

	return records, st, nil
}
