// Package safeio holds the file helpers every rewriting pass goes through.
package safeio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideBase is returned when a path resolves outside the allowed base directory.
var ErrOutsideBase = errors.New("path is outside base directory")

// Contained reports whether filePath resolves inside baseDir.
func Contained(baseDir, filePath string) (bool, error) {
	baseAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return false, errors.New("failed to resolve base directory")
	}
	fileAbs, err := filepath.Abs(filePath)
	if err != nil {
		return false, errors.New("failed to resolve file path")
	}
	rel, err := filepath.Rel(baseAbs, fileAbs)
	if err != nil {
		return false, errors.New("failed to compute relative path")
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}
	return true, nil
}

// ReadFileContained reads a file only if it is contained within baseDir.
func ReadFileContained(baseDir, filePath string) ([]byte, error) {
	ok, err := Contained(baseDir, filePath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOutsideBase
	}
	// #nosec G304 -- containment verified above
	return os.ReadFile(filePath)
}

// WriteFilePreservePerms writes data to path preserving existing file mode when possible.
// When the file does not exist, it uses a sane default of 0644.
func WriteFilePreservePerms(path string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode() & 0o777
		if mode == 0 {
			mode = 0o644
		}
	}
	return os.WriteFile(path, data, mode)
}

// Exists reports whether path exists (file or directory). Permission errors count as existing.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}
