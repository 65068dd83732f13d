package pdf

import (
	"context"
	"fmt"

	"github.com/a3tai/pdf-doc-inspector/internal/intelligence"
	"github.com/a3tai/pdf-doc-inspector/internal/logger"
	pdferrors "github.com/a3tai/pdf-doc-inspector/internal/pdf/errors"
	"github.com/a3tai/pdf-doc-inspector/internal/pdf/security"
)

// Observer is notified of every inspection outcome
type Observer interface {
	ObserveInspection(documentType string, pageCount, dateCount int)
	ObserveFailure(kind string)
}

type nopObserver struct{}

func (nopObserver) ObserveInspection(string, int, int) {}
func (nopObserver) ObserveFailure(string)              {}

// Option configures a Service
type Option func(*Service)

// WithObserver reports inspection outcomes to o
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger sets the logger used when the request context carries none
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// Service runs documents through extraction, classification and date
// extraction. It keeps no per-request state and is safe for concurrent use.
type Service struct {
	maxFileSize   int64
	reader        *Reader
	validator     *Validator
	classifier    *intelligence.DocumentClassifier
	dates         *intelligence.DateExtractor
	pathValidator *security.PathValidator
	observer      Observer
	log           logger.Logger
}

// NewService creates a service serving files below configuredDirectory
func NewService(maxFileSize int64, configuredDirectory string, opts ...Option) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	s := &Service{
		maxFileSize:   maxFileSize,
		validator:     NewValidator(maxFileSize),
		classifier:    intelligence.NewDocumentClassifier(),
		dates:         intelligence.NewDateExtractor(),
		pathValidator: pathValidator,
		observer:      nopObserver{},
		log:           logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reader = NewReader(s.log)

	return s, nil
}

// Inspect extracts the text of raw, classifies it and lists its dates.
// A failure to read the document is returned as an *ExtractionError.
func (s *Service) Inspect(ctx context.Context, raw []byte) (*InspectResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := s.loggerFor(ctx)

	if err := s.validator.ValidateSize(int64(len(raw))); err != nil {
		s.observer.ObserveFailure(pdferrors.KindOf(err).String())
		return nil, err
	}

	extraction, err := s.reader.Extract(raw)
	if err != nil {
		kind := pdferrors.KindOf(err).String()
		log.Warn("document extraction failed", "kind", kind, "error", err)
		s.observer.ObserveFailure(kind)
		return nil, err
	}

	classification := s.classifier.ClassifyWithEvidence(extraction.Text)
	dates := s.dates.Extract(extraction.Text)

	log.Debug("document inspected",
		"pages", extraction.PageCount,
		"chars", len(extraction.Text),
		"document_type", classification.DocumentType,
		"trigger", classification.Trigger,
		"dates", len(dates),
	)
	s.observer.ObserveInspection(classification.DocumentType.String(), extraction.PageCount, len(dates))

	return &InspectResult{
		DocumentText:        extraction.Text,
		DocumentType:        classification.DocumentType.String(),
		Dates:               dates,
		PageCount:           extraction.PageCount,
		DatePatternsVersion: intelligence.DatePatternsVersion,
		Warnings:            extraction.Warnings,
	}, nil
}

// InspectFile runs Inspect on a file inside the configured directory
func (s *Service) InspectFile(ctx context.Context, req PDFInspectFileRequest) (*InspectResult, error) {
	raw, err := s.loadFile(req.Path)
	if err != nil {
		return nil, err
	}
	return s.Inspect(ctx, raw)
}

// ReadFile extracts the text of a file inside the configured directory
func (s *Service) ReadFile(req PDFReadFileRequest) (*PDFReadFileResult, error) {
	raw, err := s.loadFile(req.Path)
	if err != nil {
		return nil, err
	}

	extraction, err := s.reader.Extract(raw)
	if err != nil {
		s.observer.ObserveFailure(pdferrors.KindOf(err).String())
		return nil, err
	}

	return &PDFReadFileResult{
		Content:     extraction.Text,
		Path:        req.Path,
		Pages:       extraction.PageCount,
		Size:        int64(len(raw)),
		ContentType: extraction.ContentType,
		HasImages:   extraction.ImageCount > 0,
		ImageCount:  extraction.ImageCount,
		Truncated:   extraction.Truncated,
	}, nil
}

// ValidateFile checks a file inside the configured directory
func (s *Service) ValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	resolved, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	result, err := s.validator.ValidateFile(PDFValidateFileRequest{Path: resolved})
	if err != nil {
		return nil, err
	}
	result.Path = req.Path
	return result, nil
}

// ClassifyText classifies text that was extracted elsewhere
func (s *Service) ClassifyText(req ClassifyTextRequest) ClassifyTextResult {
	c := s.classifier.ClassifyWithEvidence(req.Text)
	return ClassifyTextResult{
		DocumentType: c.DocumentType.String(),
		Trigger:      c.Trigger,
	}
}

// ExtractDates lists the dates in text that was extracted elsewhere
func (s *Service) ExtractDates(req ExtractDatesRequest) ExtractDatesResult {
	result := ExtractDatesResult{DatePatternsVersion: intelligence.DatePatternsVersion}
	if !req.Verbose {
		result.Dates = s.dates.Extract(req.Text)
		return result
	}

	result.Dates = []string{}
	result.Candidates = s.dates.Scan(req.Text)
	for _, m := range result.Candidates {
		if m.Valid {
			result.Dates = append(result.Dates, m.Normalized)
		}
	}
	return result
}

// ServerInfo describes the service for clients discovering its capabilities
func (s *Service) ServerInfo(serverName, version string, tools []ToolInfo) *ServerInfo {
	return &ServerInfo{
		ServerName:          serverName,
		Version:             version,
		DefaultDirectory:    s.pathValidator.GetConfiguredDirectory(),
		MaxFileSize:         s.maxFileSize,
		DocumentTypes:       s.classifier.Taxonomy().Labels(),
		DatePatterns:        intelligence.DatePatternNames(),
		DatePatternsVersion: intelligence.DatePatternsVersion,
		AvailableTools:      tools,
	}
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// GetConfiguredDirectory returns the directory files are served from
func (s *Service) GetConfiguredDirectory() string {
	return s.pathValidator.GetConfiguredDirectory()
}

func (s *Service) loadFile(path string) ([]byte, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.readFile(resolved)
}

func (s *Service) loggerFor(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(logger.LoggerCtxKey).(logger.Logger); ok && l != nil {
		return l
	}
	return s.log
}
