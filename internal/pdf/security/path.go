package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator confines file access to one directory tree
type PathValidator struct {
	configuredDirectory string
}

// NewPathValidator creates a validator rooted at configuredDirectory. The
// directory does not need to exist yet.
func NewPathValidator(configuredDirectory string) (*PathValidator, error) {
	if strings.TrimSpace(configuredDirectory) == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	return &PathValidator{configuredDirectory: configuredDirectory}, nil
}

// Resolve returns the absolute form of path after checking that it lies
// inside the configured directory. Relative paths are taken relative to the
// configured directory; symlinks are followed before the check.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.configuredDirectory, path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	root, err := filepath.Abs(v.configuredDirectory)
	if err != nil {
		return "", fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	if !within(realPath(absPath), realPath(root)) {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}
	return absPath, nil
}

// ValidatePath checks that path lies inside the configured directory
func (v *PathValidator) ValidatePath(path string) error {
	_, err := v.Resolve(path)
	return err
}

// GetConfiguredDirectory returns the configured directory path
func (v *PathValidator) GetConfiguredDirectory() string {
	return v.configuredDirectory
}

// realPath follows symlinks when path exists and cleans it otherwise
func realPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	if _, err := os.Lstat(path); err != nil {
		// a missing file may still sit below a symlinked directory
		if dir, err := filepath.EvalSymlinks(filepath.Dir(path)); err == nil {
			return filepath.Join(dir, filepath.Base(path))
		}
	}
	return filepath.Clean(path)
}

func within(path, root string) bool {
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
