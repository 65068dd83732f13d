package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	pdferrors "github.com/a3tai/pdf-doc-inspector/internal/pdf/errors"
)

// ProbeResult describes the document structure as seen by pdfcpu
type ProbeResult struct {
	PageCount int    `json:"page_count"`
	Version   string `json:"version,omitempty"`
	Encrypted bool   `json:"encrypted"`
}

// Probe reads the cross-reference table and page tree of raw with pdfcpu in
// relaxed mode. It does not decode content streams.
func Probe(raw []byte) (*ProbeResult, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, pdferrors.New(pdferrors.KindEmptyInput, "document is empty")
	}

	data, err := trimToHeader(raw)
	if err != nil {
		return nil, err
	}

	ctx, err := readRelaxed(data)
	if err != nil {
		return nil, err
	}

	result := &ProbeResult{
		PageCount: ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
	}
	if ctx.HeaderVersion != nil {
		result.Version = ctx.HeaderVersion.String()
	}
	return result, nil
}

// readRelaxed loads the cross-reference table and page tree of data with
// pdfcpu, which rebuilds the table by scanning for objects when its offsets
// are wrong.
func readRelaxed(data []byte) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	var ctx *model.Context
	err := pdferrors.Guard("probe document", func() error {
		var err error
		ctx, err = api.ReadContext(bytes.NewReader(data), conf)
		if err != nil {
			return err
		}
		return ctx.EnsurePageCount()
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "password") {
			return nil, pdferrors.Wrap(pdferrors.KindEncrypted, "document is encrypted", err)
		}
		return nil, pdferrors.Wrap(pdferrors.KindCorruptedStructure, "structure could not be read", err)
	}
	return ctx, nil
}

// rewrite serializes ctx with a freshly computed cross-reference table
func rewrite(ctx *model.Context) ([]byte, error) {
	var buf bytes.Buffer
	err := pdferrors.Guard("rewrite document", func() error {
		return api.WriteContext(ctx, &buf)
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validator checks files before they are handed to the extractor
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator enforcing maxFileSize
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateFile checks a file on disk and probes its structure. A file that
// fails validation is reported in the result, not as an error.
func (v *Validator) ValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	result := &PDFValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	raw, err := v.readFile(req.Path)
	if err != nil {
		result.Message = err.Error()
		if pdferrors.IsExtractionError(err) {
			result.Kind = pdferrors.KindOf(err).String()
		}
		return result, nil //nolint:nilerr // invalid files are a result, not a failure
	}

	probe, err := Probe(raw)
	if err != nil {
		result.Message = err.Error()
		result.Kind = pdferrors.KindOf(err).String()
		return result, nil //nolint:nilerr // invalid files are a result, not a failure
	}

	result.Valid = true
	result.Probe = probe
	return result, nil
}

// ValidateSize rejects buffers above the configured limit
func (v *Validator) ValidateSize(size int64) error {
	if size > v.maxFileSize {
		return pdferrors.New(pdferrors.KindTooLarge,
			fmt.Sprintf("document too large: %d bytes (max: %d bytes)", size, v.maxFileSize))
	}
	return nil
}

// readFile performs the file level checks and returns the file contents
func (v *Validator) readFile(filePath string) ([]byte, error) {
	if filePath == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	if !strings.EqualFold(filepath.Ext(filePath), ".pdf") {
		return nil, fmt.Errorf("file is not a PDF: %s", filePath)
	}
	if fileInfo.Size() == 0 {
		return nil, pdferrors.New(pdferrors.KindEmptyInput, fmt.Sprintf("file is empty: %s", filePath))
	}
	if err := v.ValidateSize(fileInfo.Size()); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return raw, nil
}
