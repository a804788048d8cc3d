package files

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "salesreport/internal/errors"
)

// PendingFile is a file staged for an all-or-nothing write.
type PendingFile struct {
	Path    string
	Content []byte
}

// Manager writes run outputs to disk.
type Manager struct {
	logger *slog.Logger
	rename func(oldpath, newpath string) error
}

// NewManager creates a new file manager instance
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger: logger.With(slog.String("component", "file_manager")),
		rename: os.Rename,
	}
}

// commit tracks one destination while files are moved into place.
type commit struct {
	dest   string
	staged string
	backup string
	placed bool
}

// WriteAll writes every file or none of them. Destinations are checked
// first, then every file is staged as a temp file next to its destination
// and moved into place. Existing destinations are kept aside until all
// moves succeed; if any move fails the previous contents are restored and
// new destinations removed.
func (m *Manager) WriteAll(ctx context.Context, files []PendingFile) error {
	for _, f := range files {
		if err := checkDestination(f.Path); err != nil {
			return err
		}
	}

	commits := make([]*commit, 0, len(files))
	for _, f := range files {
		tmp, err := m.stage(f)
		if err != nil {
			m.rollback(ctx, commits)
			return err
		}
		commits = append(commits, &commit{dest: f.Path, staged: tmp})
	}

	for _, c := range commits {
		if err := m.place(c); err != nil {
			m.rollback(ctx, commits)
			return apperrors.NewStorageError(fmt.Sprintf("failed to move %s into place", c.dest), err).
				WithContext("path", c.dest)
		}
	}

	for i, c := range commits {
		if c.backup != "" {
			os.Remove(c.backup)
		}
		m.logger.InfoContext(ctx, "wrote file",
			slog.String("path", c.dest),
			slog.Int("bytes", len(files[i].Content)))
	}

	return nil
}

// checkDestination rejects destinations that can never be replaced by a file.
func checkDestination(path string) error {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return apperrors.NewStorageError(fmt.Sprintf("output path %s is a directory", path), nil).
			WithContext("path", path)
	}
	if err != nil && !os.IsNotExist(err) {
		return apperrors.NewStorageError(fmt.Sprintf("failed to check %s", path), err).
			WithContext("path", path)
	}
	return nil
}

// place moves an existing destination aside, then the staged file in.
func (m *Manager) place(c *commit) error {
	if _, err := os.Lstat(c.dest); err == nil {
		backup := c.staged + ".orig"
		if err := m.rename(c.dest, backup); err != nil {
			return err
		}
		c.backup = backup
	}
	if err := m.rename(c.staged, c.dest); err != nil {
		return err
	}
	c.placed = true
	return nil
}

// rollback undoes placed files in reverse order and removes leftovers.
func (m *Manager) rollback(ctx context.Context, commits []*commit) {
	for i := len(commits) - 1; i >= 0; i-- {
		c := commits[i]
		if c.placed {
			os.Remove(c.dest)
		} else {
			os.Remove(c.staged)
		}
		if c.backup != "" {
			if err := os.Rename(c.backup, c.dest); err != nil {
				m.logger.ErrorContext(ctx, "failed to restore previous output",
					slog.String("path", c.dest),
					slog.String("backup", c.backup),
					slog.String("error", err.Error()))
			}
		}
	}
}

// stage writes content to a temp file in the destination directory
func (m *Manager) stage(f PendingFile) (string, error) {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to create temp file for %s", f.Path), err)
	}

	if _, err := tmp.Write(f.Content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to write %s", f.Path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to close %s", f.Path), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to set mode on %s", f.Path), err)
	}

	return tmp.Name(), nil
}
