package fs

// Output directory handling: atomic writes (tmp + rename) and post-write checks.

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Artifact is one file produced by a run.
type Artifact struct {
	Path    string `json:"path"`
	Caption string `json:"caption"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Name is the file name without directory.
func (a Artifact) Name() string { return filepath.Base(a.Path) }

func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}

// WriteFileAtomic writes data to path through a temporary sibling file.
func WriteFileAtomic(path string, data []byte) error {
	return WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteAtomic streams write's output into path.tmp, then renames it over path.
// The file is checked to be non-empty before it becomes visible.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	tempFilePath := path + ".tmp"
	f, err := os.OpenFile(tempFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		_ = os.Remove(tempFilePath)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		_ = os.Remove(tempFilePath)
		return fmt.Errorf("failed to flush %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempFilePath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := CheckNonEmpty(tempFilePath); err != nil {
		_ = os.Remove(tempFilePath)
		return err
	}

	if err := os.Rename(tempFilePath, path); err != nil {
		_ = os.Remove(tempFilePath)
		return fmt.Errorf("failed to rename temporary file to %s: %w", path, err)
	}
	return nil
}

// CheckNonEmpty fails when path is missing or has zero size.
func CheckNonEmpty(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file %s is empty after writing", path)
	}
	return nil
}
