package files

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "salesreport/internal/errors"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// sourceExtensions are the extensions picked up when a directory is listed.
var sourceExtensions = []string{".csv", ".xlsx", ".xlsm"}

// Discovery resolves configured input paths into source files.
type Discovery struct {
	logger *slog.Logger
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{logger: logger.With(slog.String("component", "discovery"))}
}

// Resolve expands paths in order. Files are taken as given, directories
// expand to their source files sorted by name. Paths that do not exist are
// logged and returned as skipped. It fails only when nothing resolves.
func (d *Discovery) Resolve(ctx context.Context, paths []string) ([]FileInfo, []string, error) {
	var found []FileInfo
	var skipped []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				d.logger.WarnContext(ctx, "input file not found, skipping", slog.String("path", p))
				skipped = append(skipped, p)
				continue
			}
			return nil, nil, apperrors.NewIngestionError(fmt.Sprintf("failed to stat %s", p), err)
		}

		if !info.IsDir() {
			found = append(found, FileInfo{
				Path:    p,
				Name:    info.Name(),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
			continue
		}

		dirFiles, err := d.FindSourceFiles(p)
		if err != nil {
			return nil, nil, apperrors.NewIngestionError(fmt.Sprintf("failed to list %s", p), err)
		}
		if len(dirFiles) == 0 {
			d.logger.WarnContext(ctx, "input directory has no source files", slog.String("path", p))
		}
		found = append(found, dirFiles...)
	}

	if len(found) == 0 {
		return nil, skipped, apperrors.NewIngestionError("no input files found", nil).
			WithContext("paths", paths)
	}

	d.logger.InfoContext(ctx, "resolved input files",
		slog.Int("found", len(found)),
		slog.Int("skipped", len(skipped)))

	return found, skipped, nil
}

// FindSourceFiles finds all CSV and Excel files in dir, sorted by name.
// Office lock files (~$name.xlsx) are ignored.
func (d *Discovery) FindSourceFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "~$") || !IsSourceFile(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// IsSourceFile reports whether name has a supported source extension.
func IsSourceFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range sourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IsExcelFile reports whether name is an Excel workbook.
func IsExcelFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".xlsx" || ext == ".xlsm"
}
