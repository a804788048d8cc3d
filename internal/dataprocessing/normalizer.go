package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"salesreport/internal/config"
	"salesreport/pkg/contracts/domain"
)

// Normalizer turns raw export rows into canonical sales records.
type Normalizer struct {
	cfg    config.DomainConfig
	logger *slog.Logger
}

// NormalizeStats counts row-level defects absorbed during normalization.
type NormalizeStats struct {
	Rows            int
	Undated         int
	Dummy           int
	Aliased         int
	AmountCoerced   int
	QuantityCoerced int
}

// NewNormalizer creates a normalizer for the given domain rules.
func NewNormalizer(cfg config.DomainConfig, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.UnknownLabel == "" {
		cfg.UnknownLabel = config.DefaultUnknownLabel
	}
	return &Normalizer{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "normalizer")),
	}
}

// Normalize converts one raw record. It never fails: unparseable numbers
// become zero and missing names fall back to the unknown label.
func (n *Normalizer) Normalize(raw domain.RawRecord) domain.SalesRecord {
	rec, _ := n.normalize(raw)
	return rec
}

// rowFlags reports which defaults were applied to a row
type rowFlags struct {
	aliased         bool
	amountCoerced   bool
	quantityCoerced bool
}

func (n *Normalizer) normalize(raw domain.RawRecord) (domain.SalesRecord, rowFlags) {
	var flags rowFlags

	amount, ok := ParseNumber(raw.Amount)
	flags.amountCoerced = !ok
	quantity, ok := ParseNumber(raw.Quantity)
	flags.quantityCoerced = !ok

	customer := orDefault(raw.Customer, n.cfg.UnknownLabel)
	if canonical, ok := n.consolidate(customer); ok {
		customer = canonical
		flags.aliased = true
	}
	item := orDefault(raw.Item, n.cfg.UnknownLabel)
	group := orDefault(raw.CustomerGroup, n.cfg.GroupDefault)

	rec := domain.SalesRecord{
		Source:        raw.Source,
		Date:          raw.Date,
		Customer:      customer,
		Item:          item,
		Brand:         n.brandOf(item),
		CustomerGroup: group,
		Amount:        amount,
		Quantity:      quantity,
		Market:        n.classify(group, customer),
		IsDummy:       n.isDummy(item),
	}
	if !raw.Date.IsZero() {
		rec.Year = raw.Date.Year()
		rec.Month = int(raw.Date.Month())
	}

	return rec, flags
}

// NormalizeAll converts a batch in order and logs the absorbed defects.
func (n *Normalizer) NormalizeAll(ctx context.Context, raws []domain.RawRecord) ([]domain.SalesRecord, NormalizeStats) {
	records := make([]domain.SalesRecord, len(raws))
	var stats NormalizeStats

	for i, raw := range raws {
		rec, flags := n.normalize(raw)
		records[i] = rec

		stats.Rows++
		if !rec.HasDate() {
			stats.Undated++
		}
		if rec.IsDummy {
			stats.Dummy++
		}
		if flags.aliased {
			stats.Aliased++
		}
		if flags.amountCoerced {
			stats.AmountCoerced++
		}
		if flags.quantityCoerced {
			stats.QuantityCoerced++
		}
	}

	n.logger.InfoContext(ctx, "normalized records",
		slog.Int("rows", stats.Rows),
		slog.Int("undated", stats.Undated),
		slog.Int("dummy", stats.Dummy),
		slog.Int("aliased", stats.Aliased),
		slog.Int("amount_coerced", stats.AmountCoerced),
		slog.Int("quantity_coerced", stats.QuantityCoerced))

	return records, stats
}

// consolidate maps a customer containing any alias to the canonical label.
func (n *Normalizer) consolidate(customer string) (string, bool) {
	for _, alias := range n.cfg.CustomerAliases {
		if alias != "" && strings.Contains(customer, alias) {
			return n.cfg.CanonicalCustomer, true
		}
	}
	return customer, false
}

// classify derives the market from the group, falling back to the customer
// name because group data is sparse.
func (n *Normalizer) classify(group, customer string) domain.Market {
	marker := n.cfg.ExportMarker
	if marker != "" && (strings.Contains(group, marker) || strings.Contains(customer, marker)) {
		return domain.MarketExport
	}
	return domain.MarketDomestic
}

func (n *Normalizer) isDummy(item string) bool {
	for _, m := range n.cfg.DummyMarkers {
		if m != "" && strings.Contains(item, m) {
			return true
		}
	}
	return false
}

func (n *Normalizer) brandOf(item string) string {
	if fields := strings.Fields(item); len(fields) > 0 {
		return fields[0]
	}
	return n.cfg.UnknownLabel
}

// ParseNumber parses an export number such as "1,234.5". It returns zero and
// false for anything that is not a number, including the empty string.
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
