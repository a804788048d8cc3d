package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
)

// document accumulates Markdown lines.
type document struct {
	b      strings.Builder
	noData string
}

func newDocument(noData string) *document {
	return &document{noData: noData}
}

func (d *document) line(format string, args ...any) {
	if len(args) == 0 {
		d.b.WriteString(format)
	} else {
		fmt.Fprintf(&d.b, format, args...)
	}
	d.b.WriteByte('\n')
}

func (d *document) blank() {
	d.b.WriteByte('\n')
}

func (d *document) heading(level int, format string, args ...any) {
	d.blank()
	d.line(strings.Repeat("#", level)+" "+format, args...)
	d.blank()
}

// table writes a Markdown table, or the placeholder when there are no rows.
func (d *document) table(header []string, rows [][]string) {
	if len(rows) == 0 {
		d.placeholder()
		return
	}
	d.blank()
	d.line(markdownTable(header, rows))
	d.blank()
}

func (d *document) placeholder() {
	d.line("_%s_", d.noData)
}

func (d *document) String() string {
	return strings.TrimLeft(d.b.String(), "\n")
}

func markdownTable(header []string, rows [][]string) string {
	t := table.NewWriter()

	h := make(table.Row, len(header))
	for i, c := range header {
		h[i] = c
	}
	t.AppendHeader(h)

	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, c := range r {
			row[i] = c
		}
		t.AppendRow(row)
	}

	return t.RenderMarkdown()
}

// currency formats an amount with thousands separators, truncating decimals.
func currency(v decimal.Decimal) string {
	return humanize.Comma(v.IntPart())
}

// pct formats a share with one decimal.
func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// growth formats a change with an explicit sign and one decimal.
func growth(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}
