package pdf

import (
	"github.com/a3tai/pdf-doc-inspector/internal/intelligence"
	pdferrors "github.com/a3tai/pdf-doc-inspector/internal/pdf/errors"
)

// Request Types

// PDFInspectFileRequest asks for the full pipeline on a file in the served directory
type PDFInspectFileRequest struct {
	Path string `json:"path"`
}

// PDFReadFileRequest represents a request to read a PDF file
type PDFReadFileRequest struct {
	Path string `json:"path"`
}

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// ClassifyTextRequest classifies text that was extracted elsewhere
type ClassifyTextRequest struct {
	Text string `json:"text"`
}

// ExtractDatesRequest extracts dates from text that was extracted elsewhere
type ExtractDatesRequest struct {
	Text    string `json:"text"`
	Verbose bool   `json:"verbose,omitempty"`
}

// Response Types

// InspectResult is the outcome of running the pipeline on one document
type InspectResult struct {
	DocumentText        string   `json:"document_text"`
	DocumentType        string   `json:"document_type"`
	Dates               []string `json:"dates"`
	PageCount           int      `json:"page_count"`
	DatePatternsVersion string   `json:"date_patterns_version"`
	Warnings            []string `json:"warnings,omitempty"`
}

// ErrorResult is the JSON form of a failed inspection
type ErrorResult struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// NewErrorResult builds the JSON error form of err
func NewErrorResult(err error) ErrorResult {
	result := ErrorResult{Error: err.Error()}
	if pdferrors.IsExtractionError(err) {
		result.Kind = pdferrors.KindOf(err).String()
	}
	return result
}

// PDFReadFileResult represents the result of a PDF read operation
type PDFReadFileResult struct {
	Content     string `json:"content"`
	Path        string `json:"path"`
	Pages       int    `json:"pages"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"` // "text", "scanned_images", "mixed", "no_content"
	HasImages   bool   `json:"has_images"`
	ImageCount  int    `json:"image_count"`
	Truncated   bool   `json:"truncated,omitempty"`
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool         `json:"valid"`
	Path    string       `json:"path"`
	Message string       `json:"message,omitempty"`
	Kind    string       `json:"kind,omitempty"`
	Probe   *ProbeResult `json:"probe,omitempty"`
}

// ClassifyTextResult reports the label and the trigger that produced it
type ClassifyTextResult struct {
	DocumentType string `json:"document_type"`
	Trigger      string `json:"trigger,omitempty"`
}

// ExtractDatesResult lists normalized dates and, when asked, every candidate
type ExtractDatesResult struct {
	Dates               []string                 `json:"dates"`
	Candidates          []intelligence.DateMatch `json:"candidates,omitempty"`
	DatePatternsVersion string                   `json:"date_patterns_version"`
}

// ServerInfo describes a running server and what it can do
type ServerInfo struct {
	ServerName          string     `json:"server_name"`
	Version             string     `json:"version"`
	DefaultDirectory    string     `json:"default_directory"`
	MaxFileSize         int64      `json:"max_file_size"`
	DocumentTypes       []string   `json:"document_types"`
	DatePatterns        []string   `json:"date_patterns"`
	DatePatternsVersion string     `json:"date_patterns_version"`
	AvailableTools      []ToolInfo `json:"available_tools"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
