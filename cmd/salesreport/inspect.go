package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"salesreport/internal/config"
	"salesreport/internal/ingest"
)

const previewRows = 5

func newInspectCmd() *cobra.Command {
	var sheet, dateColumn string

	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Show how source files are decoded",
		Long: `Print the detected encoding, the date layout, the header and the first
rows of each file without normalizing anything.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := inspectFile(cmd, path, sheet, dateColumn); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "workbook sheet (default: first)")
	cmd.Flags().StringVar(&dateColumn, "date-column", config.DefaultDateColumn, "header of the date column")
	return cmd
}

func inspectFile(cmd *cobra.Command, path, sheet, dateColumn string) error {
	t, err := ingest.ReadTable(path, sheet)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s\n", path)
	_, _ = fmt.Fprintf(out, "  encoding:    %s\n", t.Encoding)
	if t.Sheet != "" {
		_, _ = fmt.Fprintf(out, "  sheet:       %s\n", t.Sheet)
	}
	_, _ = fmt.Fprintf(out, "  rows:        %d\n", len(t.Rows))
	_, _ = fmt.Fprintf(out, "  columns:     %s\n", strings.Join(t.Header, ", "))
	_, _ = fmt.Fprintf(out, "  date layout: %s\n", dateLayout(t, dateColumn))

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	tw.AppendHeader(header)

	for i, row := range t.Rows {
		if i == previewRows {
			break
		}
		r := make(table.Row, len(t.Header))
		for j := range t.Header {
			r[j] = ingest.Cell(row, j)
		}
		tw.AppendRow(r)
	}
	tw.Render()
	return nil
}

func dateLayout(t *ingest.Table, column string) string {
	cols, err := t.Columns([]string{column})
	if err != nil {
		return "(no " + column + " column)"
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = ingest.Cell(row, cols[column])
	}
	_, layout := ingest.ResolveDates(values, config.DefaultDateLayouts)
	if layout == "" {
		return "(none matched)"
	}
	return layout
}
