package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "salesreport/internal/errors"
	"salesreport/internal/files"
)

// Table is a decoded source file: a header row plus data rows.
type Table struct {
	Path     string
	Encoding string
	Sheet    string
	Header   []string
	Rows     [][]string
}

// ReadTable reads a CSV or Excel file. sheet selects the workbook sheet and
// defaults to the first one; it is ignored for CSV.
func ReadTable(path, sheet string) (*Table, error) {
	if files.IsExcelFile(path) {
		return readExcel(path, sheet)
	}
	return readCSV(path)
}

func readCSV(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewIngestionError(fmt.Sprintf("failed to read %s", path), err).
			WithContext("file", path)
	}

	data, encoding, err := Decode(raw)
	if err != nil {
		return nil, apperrors.NewIngestionError(fmt.Sprintf("failed to decode %s", path), err).
			WithContext("file", path)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	t := &Table{Path: path, Encoding: encoding}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewIngestionError(fmt.Sprintf("failed to parse %s", path), err).
				WithContext("file", path)
		}
		t.add(rec)
	}

	return t, nil
}

func readExcel(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewIngestionError(fmt.Sprintf("failed to open %s", path), err).
			WithContext("file", path)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewIngestionError(fmt.Sprintf("workbook %s has no sheets", path), nil).
				WithContext("file", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewIngestionError(fmt.Sprintf("failed to read sheet %q of %s", sheet, path), err).
			WithContext("file", path)
	}

	t := &Table{Path: path, Encoding: EncodingXLSX, Sheet: sheet}
	for _, row := range rows {
		t.add(row)
	}
	return t, nil
}

// add appends a row; the first non-empty row becomes the header.
func (t *Table) add(row []string) {
	if isBlank(row) {
		return
	}
	if t.Header == nil {
		t.Header = make([]string, len(row))
		for i, h := range row {
			t.Header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		}
		return
	}
	t.Rows = append(t.Rows, row)
}

// Columns maps each required label to its header position. The first label
// missing from the header is reported as a schema error.
func (t *Table) Columns(required []string) (map[string]int, error) {
	pos := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	idx := make(map[string]int, len(required))
	for _, col := range required {
		i, ok := pos[col]
		if !ok {
			return nil, apperrors.NewSchemaError(t.Path, col)
		}
		idx[col] = i
	}
	return idx, nil
}

// Cell returns the trimmed value at col, or "" when the row is short.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
