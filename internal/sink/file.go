// Package sink writes finished reports to disk.
package sink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile creates path's directory if needed and writes through fill into a
// temporary sibling file that replaces path only once fill succeeds. A failed
// write leaves any previous file untouched.
func WriteFile(path string, fill func(io.Writer) error) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := fill(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
