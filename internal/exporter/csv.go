package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"salesreport/pkg/contracts/domain"
)

// utf8BOM lets Excel recognize the file as UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CanonicalHeaders is the column order of the normalized record export.
var CanonicalHeaders = []string{
	"Date", "Year", "Month", "Customer", "Item", "Brand",
	"CustomerGroup", "Amount", "Quantity", "Market", "IsDummy", "Source",
}

// WriteOptions configures CSV encoding
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// EncodeCSV renders headers and records as CSV bytes.
func EncodeCSV(options WriteOptions) ([]byte, error) {
	var buf bytes.Buffer
	if options.BOMPrefix {
		buf.Write(utf8BOM)
	}

	writer := csv.NewWriter(&buf)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// CanonicalCSV renders normalized records for spreadsheet use. Undated
// records have empty date, year and month cells.
func CanonicalCSV(records []domain.SalesRecord) ([]byte, error) {
	rows := make([][]string, len(records))
	for i, r := range records {
		date, year, month := "", "", ""
		if r.HasDate() {
			date = r.Date.Format("2006-01-02")
			year = strconv.Itoa(r.Year)
			month = strconv.Itoa(r.Month)
		}
		rows[i] = []string{
			date, year, month,
			r.Customer, r.Item, r.Brand, r.CustomerGroup,
			r.Amount.String(), r.Quantity.String(),
			string(r.Market), strconv.FormatBool(r.IsDummy), r.Source,
		}
	}

	return EncodeCSV(WriteOptions{
		Headers:   CanonicalHeaders,
		Records:   rows,
		BOMPrefix: true,
	})
}
