package dataprocessing

import (
	"github.com/shopspring/decimal"

	"salesreport/internal/config"
	"salesreport/pkg/contracts/domain"
)

var hundred = decimal.NewFromInt(100)

// GrowthPct returns the change from v0 to v1 in percent, or 0 when v0 is zero.
func GrowthPct(v1, v0 decimal.Decimal) float64 {
	if v0.IsZero() {
		return 0
	}
	return v1.Sub(v0).Div(v0).Mul(hundred).InexactFloat64()
}

// SharePct returns v as a percentage of total, or 0 when total is zero.
func SharePct(v, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return v.Div(total).Mul(hundred).InexactFloat64()
}

// ExportSharePct returns the export share of combined revenue in percent.
func ExportSharePct(export, domestic decimal.Decimal) float64 {
	return SharePct(export, export.Add(domestic))
}

// Classifier assigns insight labels from configured thresholds.
type Classifier struct {
	th config.Thresholds
}

// NewClassifier creates a classifier.
func NewClassifier(th config.Thresholds) *Classifier {
	return &Classifier{th: th}
}

// BrandTags returns every applicable tag: growth tier, export tier, then scale.
func (c *Classifier) BrandTags(growth, exportShare float64, revenue decimal.Decimal) []domain.Tag {
	var tags []domain.Tag

	switch {
	case growth > c.th.HighGrowth:
		tags = append(tags, domain.TagHighGrowth)
	case growth < c.th.Decline:
		tags = append(tags, domain.TagDeclining)
	case growth < 0:
		tags = append(tags, domain.TagSoftDecline)
	}

	switch {
	case exportShare > c.th.ExportLed:
		tags = append(tags, domain.TagExportLed)
	case exportShare < c.th.DomesticConcentrated:
		tags = append(tags, domain.TagDomesticConcentrated)
	}

	if revenue.GreaterThan(decimal.NewFromFloat(c.th.CashCow)) {
		tags = append(tags, domain.TagCashCow)
	}

	return tags
}

// ItemTrend marks sharp year-over-year moves in unit volume.
func (c *Classifier) ItemTrend(qtyGrowth float64) domain.Trend {
	switch {
	case qtyGrowth > c.th.ItemSurge:
		return domain.TrendSurging
	case qtyGrowth < c.th.ItemDecline:
		return domain.TrendDeclining
	default:
		return domain.TrendNone
	}
}

// AccountOutlook classifies a customer's revenue growth.
func (c *Classifier) AccountOutlook(growth float64) domain.Outlook {
	switch {
	case growth > c.th.AccountGrowth:
		return domain.OutlookGrowing
	case growth < c.th.AccountDecline:
		return domain.OutlookShrinking
	default:
		return domain.OutlookStable
	}
}

// ExportLeaning reports whether the narrative should stress export dependency.
func (c *Classifier) ExportLeaning(exportShare float64) bool {
	return exportShare > c.th.ExportNarrative
}
