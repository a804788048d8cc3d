package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRecord is one transaction line as read from a source export.
// Every field is kept as text; Date is resolved by ingestion and is the zero
// time when the row's date could not be parsed with the file's layout.
type RawRecord struct {
	Source        string    `json:"source"`
	Line          int       `json:"line"`
	DateText      string    `json:"date_text"`
	Date          time.Time `json:"date"`
	Customer      string    `json:"customer"`
	Item          string    `json:"item"`
	CustomerGroup string    `json:"customer_group"`
	Amount        string    `json:"amount"`
	Quantity      string    `json:"quantity"`
}

// Market classifies a transaction as export or domestic business.
type Market string

const (
	MarketExport   Market = "Export"
	MarketDomestic Market = "Domestic"
)

// Markets lists markets in report order.
var Markets = []Market{MarketExport, MarketDomestic}

// String returns the market label
func (m Market) String() string {
	return string(m)
}

// SalesRecord is the canonical, normalized unit of analysis.
// Records are produced once by the normalizer and are not modified afterwards.
type SalesRecord struct {
	Source        string          `json:"source" csv:"Source"`
	Date          time.Time       `json:"date" csv:"Date"`
	Year          int             `json:"year" csv:"Year"`
	Month         int             `json:"month" csv:"Month"`
	Customer      string          `json:"customer" csv:"Customer" validate:"required"`
	Item          string          `json:"item" csv:"Item" validate:"required"`
	Brand         string          `json:"brand" csv:"Brand" validate:"required"`
	CustomerGroup string          `json:"customer_group" csv:"CustomerGroup"`
	Amount        decimal.Decimal `json:"amount" csv:"Amount"`
	Quantity      decimal.Decimal `json:"quantity" csv:"Quantity"`
	Market        Market          `json:"market" csv:"Market" validate:"required,oneof=Export Domestic"`
	IsDummy       bool            `json:"is_dummy" csv:"IsDummy"`
}

// HasDate reports whether the record carries a parsed transaction date.
func (r SalesRecord) HasDate() bool {
	return !r.Date.IsZero()
}

// Period returns the year-month label (YYYY-MM), or "" for undated records.
func (r SalesRecord) Period() string {
	if !r.HasDate() {
		return ""
	}
	return r.Date.Format("2006-01")
}

// Tag is a categorical insight label derived from threshold rules.
type Tag string

const (
	TagHighGrowth           Tag = "high-growth"
	TagDeclining            Tag = "declining"
	TagSoftDecline          Tag = "soft-decline"
	TagExportLed            Tag = "export-led"
	TagDomesticConcentrated Tag = "domestic-concentrated"
	TagCashCow              Tag = "cash-cow"
)

// Trend marks an item whose unit volume moved sharply year over year.
type Trend string

const (
	TrendNone      Trend = ""
	TrendSurging   Trend = "surging"
	TrendDeclining Trend = "declining"
)

// Outlook summarizes a customer account's year-over-year direction.
type Outlook string

const (
	OutlookGrowing   Outlook = "growing"
	OutlookShrinking Outlook = "shrinking"
	OutlookStable    Outlook = "stable"
)
