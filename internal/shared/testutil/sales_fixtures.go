package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/korean"
)

// SalesHeader is the header row of the ERP sales export.
var SalesHeader = []string{"일자", "거래처명", "품목명[규격]", "거래처그룹1명", "금액", "수량"}

// SaleRow builds one export row in header order.
func SaleRow(date, customer, item, group, amount, quantity string) []string {
	return []string{date, customer, item, group, amount, quantity}
}

// SalesCSV renders rows under SalesHeader as CSV text.
func SalesCSV(rows ...[]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(SalesHeader, ","))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(strings.Join(r, ","))
		b.WriteString("\n")
	}
	return b.String()
}

// EncodeCP949 converts UTF-8 text to the legacy Korean code page.
func EncodeCP949(t *testing.T, s string) []byte {
	t.Helper()
	out, err := korean.EUCKR.NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("encode cp949: %v", err)
	}
	return out
}

// WriteFile writes content under dir and returns the full path.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteSalesCSV writes rows as a CP949 encoded export, the format the ERP produces.
func WriteSalesCSV(t *testing.T, dir, name string, rows ...[]string) string {
	t.Helper()
	return WriteFile(t, dir, name, EncodeCP949(t, SalesCSV(rows...)))
}
