package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathValidator(t *testing.T) {
	tests := []struct {
		name      string
		dir       string
		wantError bool
	}{
		{"valid directory", t.TempDir(), false},
		{"empty directory", "", true},
		{"blank directory", "   ", true},
		{"non-existent directory", "/non/existent/path", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator, err := NewPathValidator(tt.dir)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dir, validator.GetConfiguredDirectory())
		})
	}
}

func TestPathValidator_Resolve(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "letters"), 0o755))
	outside := t.TempDir()

	validator, err := NewPathValidator(root)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr string
	}{
		{"absolute inside", filepath.Join(root, "offer.pdf"), filepath.Join(root, "offer.pdf"), ""},
		{"relative inside", "letters/offer.pdf", filepath.Join(root, "letters", "offer.pdf"), ""},
		{"root itself", root, root, ""},
		{"traversal", "../escape.pdf", "", "outside configured directory"},
		{"absolute outside", filepath.Join(outside, "x.pdf"), "", "outside configured directory"},
		{"prefix sibling", root + "-other/x.pdf", "", "outside configured directory"},
		{"empty", "", "", "cannot be empty"},
		{"null bytes only", "\x00", "", "cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validator.Resolve(tt.path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, validator.ValidatePath(tt.path))
		})
	}
}

func TestPathValidator_SymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.pdf")
	require.NoError(t, os.WriteFile(target, []byte("%PDF-1.4"), 0o600))

	link := filepath.Join(root, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	validator, err := NewPathValidator(root)
	require.NoError(t, err)

	err = validator.ValidatePath(link)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside configured directory")
}
