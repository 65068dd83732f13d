package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdferrors "github.com/a3tai/pdf-doc-inspector/internal/pdf/errors"
	"github.com/a3tai/pdf-doc-inspector/internal/pdf/pdftest"
)

func TestProbe(t *testing.T) {
	t.Run("well formed document", func(t *testing.T) {
		raw := pdftest.Document(t, []string{"one"}, []string{"two"})

		probe, err := Probe(raw)
		require.NoError(t, err)
		assert.Equal(t, 2, probe.PageCount)
		assert.NotEmpty(t, probe.Version)
		assert.False(t, probe.Encrypted)
	})

	t.Run("leading junk", func(t *testing.T) {
		raw := append([]byte("junk\n"), pdftest.Document(t, []string{"one"})...)

		probe, err := Probe(raw)
		require.NoError(t, err)
		assert.Equal(t, 1, probe.PageCount)
	})

	failures := []struct {
		name string
		raw  []byte
		kind pdferrors.ErrorKind
	}{
		{"empty", []byte{}, pdferrors.KindEmptyInput},
		{"no header", []byte("plain text"), pdferrors.KindInvalidHeader},
		{"no body", []byte("%PDF-1.4\n"), pdferrors.KindCorruptedStructure},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Probe(tt.raw)
			require.Error(t, err)
			assert.Equal(t, tt.kind, pdferrors.KindOf(err))
		})
	}
}

func TestValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o600))
		return path
	}

	validPath := write("offer.pdf", pdftest.Document(t, []string{"Offer Letter"}))
	upperPath := write("REPORT.PDF", pdftest.Document(t, []string{"Internship Report"}))
	textPath := write("notes.txt", []byte("hello"))
	emptyPath := write("empty.pdf", nil)
	brokenPath := write("broken.pdf", []byte("not a pdf at all"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.pdf"), 0o755))

	validator := NewValidator(1024 * 1024)

	tests := []struct {
		name    string
		path    string
		valid   bool
		message string
		kind    string
	}{
		{"valid", validPath, true, "", ""},
		{"upper case extension", upperPath, true, "", ""},
		{"empty path", "", false, "path cannot be empty", ""},
		{"missing", filepath.Join(dir, "missing.pdf"), false, "file does not exist", ""},
		{"directory", filepath.Join(dir, "folder.pdf"), false, "path is a directory", ""},
		{"wrong extension", textPath, false, "file is not a PDF", ""},
		{"empty file", emptyPath, false, "file is empty", "EMPTY_INPUT"},
		{"not a pdf", brokenPath, false, "missing %PDF- header", "INVALID_HEADER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.ValidateFile(PDFValidateFileRequest{Path: tt.path})
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.path, result.Path)
			assert.Equal(t, tt.kind, result.Kind)
			if tt.valid {
				require.NotNil(t, result.Probe)
				assert.Equal(t, 1, result.Probe.PageCount)
				return
			}
			assert.Contains(t, result.Message, tt.message)
		})
	}
}

func TestValidator_ValidateSize(t *testing.T) {
	validator := NewValidator(100)

	assert.NoError(t, validator.ValidateSize(100))

	err := validator.ValidateSize(101)
	require.Error(t, err)
	assert.Equal(t, pdferrors.KindTooLarge, pdferrors.KindOf(err))
	assert.Contains(t, err.Error(), "101 bytes (max: 100 bytes)")
}
