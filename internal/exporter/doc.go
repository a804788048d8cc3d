// Package exporter encodes normalized sales records as CSV.
//
// Output carries a UTF-8 BOM so Excel opens Korean text correctly. Encoding
// happens in memory; the caller writes the bytes together with the reports.
//
//	data, err := exporter.CanonicalCSV(records)
package exporter
