package report

import (
	"github.com/shopspring/decimal"

	dp "salesreport/internal/dataprocessing"
)

// valueRows renders label and value per group.
func valueRows(a dp.Aggregation) [][]string {
	rows := make([][]string, 0, a.Len())
	for _, g := range a.Groups {
		rows = append(rows, []string{g.Label(), currency(g.Value)})
	}
	return rows
}

// shareRows renders label, value and share of total per group.
func shareRows(a dp.Aggregation, total decimal.Decimal) [][]string {
	rows := make([][]string, 0, a.Len())
	for _, g := range a.Groups {
		rows = append(rows, []string{g.Label(), currency(g.Value), pct(dp.SharePct(g.Value, total))})
	}
	return rows
}
