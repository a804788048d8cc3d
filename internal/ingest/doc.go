// Package ingest reads sales export files into raw records.
//
// Each file is decoded independently: a UTF-8 BOM wins, otherwise the legacy
// Korean code page (CP949) is tried strictly before plain UTF-8. Excel
// workbooks are read through excelize. The header row is checked against the
// configured column labels, and the date column is parsed with the first
// configured layout that matches at least one row of that file, so exports
// using different date formats can be mixed in one run.
//
// Files are loaded by Loader, optionally in parallel, and concatenated in
// input order.
package ingest
