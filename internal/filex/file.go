// Package filex contains filesystem helpers: directory bootstrap, display-name
// extraction for backend upload paths, and atomic file downloads.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// uploadSegment is the path segment the backend stores uploaded files under.
// Stored names have the form "<36-char uuid><original name>".
const uploadSegment = "uploads/"

// EnsureDir creates path (and parents) when missing and returns its absolute
// form. Relative paths are resolved against the working directory.
func EnsureDir(path string) (string, error) {
	dir := path
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// DisplayName extracts the original file name from a backend storage path of
// the form ".../uploads/<uuid><original name>".
//
// The uuid prefix is only stripped when the leading 36 characters actually
// parse as a UUID; otherwise the raw segment is returned unchanged. Paths
// without an uploads segment fall back to their base name.
func DisplayName(path string) string {
	idx := strings.LastIndex(path, uploadSegment)
	if idx < 0 {
		return filepath.Base(path)
	}

	seg := path[idx+len(uploadSegment):]
	if len(seg) <= 36 {
		return seg
	}
	if _, err := uuid.Parse(seg[:36]); err != nil {
		return seg
	}
	return seg[36:]
}

// WriteAtomic streams r into dir/name via a temporary file renamed into place,
// so a partially written download never appears under the final name. The
// temporary file is removed on failure. Returns the final path.
func WriteAtomic(dir, name string, r io.Reader) (string, error) {
	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	final := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("rename to %s: %w", final, err)
	}
	return final, nil
}
