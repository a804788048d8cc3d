// Package shared holds code used by several packages that belongs to no
// single pipeline stage.
//
// The testutil subpackage provides the sales export fixtures (CP949 encoded
// CSV files in the ERP's column layout) and a capturing slog handler for
// asserting on log output.
package shared
