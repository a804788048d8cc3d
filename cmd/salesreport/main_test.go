package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "salesreport/internal/errors"
	"salesreport/internal/infrastructure"
	"salesreport/internal/shared/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "salesreport v1.0.0\n", out)
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSalesCSV(t, dir, "2025.csv",
		testutil.SaleRow("20250105", "국내상사", "X 크림", "도매", `"1,000"`, "1"),
		testutil.SaleRow("20250106", "서울유통", "Y 토너", "도매", "2000", "2"),
	)

	out, err := execute(t, "inspect", path)
	require.NoError(t, err)

	assert.Contains(t, out, "encoding:    cp949")
	assert.Contains(t, out, "rows:        2")
	assert.Contains(t, out, "date layout: 20060102")
	assert.Contains(t, out, "품목명[규격]")
	assert.Contains(t, out, "서울유통")
}

func TestInspectCommand_RequiresFile(t *testing.T) {
	_, err := execute(t, "inspect")
	assert.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	dir := t.TempDir()
	y2024 := testutil.WriteSalesCSV(t, dir, "in/2024.csv",
		testutil.SaleRow("2024/02/01", "국내상사", "X 크림", "도매", "1000", "1"))
	y2025 := testutil.WriteSalesCSV(t, dir, "in/2025.csv",
		testutil.SaleRow("2025/02/01", "국내상사", "X 크림", "도매", "1500", "1"))
	output := filepath.Join(dir, "out", "yoy.md")

	out, err := execute(t, "run",
		"-i", y2024, "-i", y2025,
		"--variant", "yoy", "--output", output,
		"--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "2 records from 2 files")
	assert.Contains(t, out, "wrote "+output)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "+50.0%")
}

func TestRunCommand_TraceStdout(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	dir := t.TempDir()
	y2025 := testutil.WriteSalesCSV(t, dir, "2025.csv",
		testutil.SaleRow("2025/02/01", "국내상사", "X 크림", "도매", "1500", "1"))
	output := filepath.Join(dir, "summary.md")

	out, err := execute(t, "run", "-i", y2025,
		"--variant", "summary", "--output", output,
		"--log-level", "error", "--trace", "stdout")
	require.NoError(t, err)

	for _, name := range []string{"report.resolve", "report.load", "report.normalize", "report.render", "report.write", "report.run"} {
		assert.Contains(t, out, `"Name":"`+name+`"`)
	}
	assert.Contains(t, out, "wrote "+output)
}

func TestRunCommand_FlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"variant without output", []string{"run", "-i", "a.csv", "--variant", "deep"}},
		{"output without variant", []string{"run", "-i", "a.csv", "--output", "x.md"}},
		{"unknown variant", []string{"run", "-i", "a.csv", "--variant", "weekly", "--output", "x.md"}},
		{"no reports", []string{"run", "-i", "a.csv"}},
		{"unknown trace exporter", []string{"run", "-i", "a.csv", "--variant", "deep", "--output", "x.md", "--trace", "otlp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.True(t, apperrors.IsConfig(err), "got %v", err)
		})
	}
}
