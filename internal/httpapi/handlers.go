package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/a3tai/pdf-doc-inspector/internal/logger"
	"github.com/a3tai/pdf-doc-inspector/internal/pdf"
	pdferrors "github.com/a3tai/pdf-doc-inspector/internal/pdf/errors"
)

// UploadField is the multipart form field holding the document
const UploadField = "pdf"

// multipartOverhead allows for boundaries and part headers around the document
const multipartOverhead = 64 * 1024

var (
	errMissingUpload = fmt.Errorf("missing form field %q", UploadField)
	errTooLarge      = errors.New("upload too large")
)

// handleUpload inspects the document posted in the "pdf" form field. The
// document is buffered in memory only; multipart parts are read as a stream
// so nothing is written to disk.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	maxSize := s.service.GetMaxFileSize()

	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	raw, filename, err := readUpload(r, maxSize)
	if err != nil {
		switch {
		case errors.Is(err, errTooLarge):
			s.observeFailure(pdferrors.KindTooLarge)
			writeJSON(w, http.StatusRequestEntityTooLarge, pdf.ErrorResult{
				Error: fmt.Sprintf("document too large (max: %d bytes)", maxSize),
				Kind:  pdferrors.KindTooLarge.String(),
			})
		default:
			writeJSON(w, http.StatusBadRequest, pdf.ErrorResult{Error: err.Error()})
		}
		log.Warn("upload rejected", "error", err)
		return
	}

	log.Debug("upload received", "filename", filename, "size", len(raw))

	result, err := s.service.Inspect(r.Context(), raw)
	if err != nil {
		writeJSON(w, statusFor(err), pdf.NewErrorResult(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUploadUsage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, fmt.Sprintf("Upload a PDF via POST request in the %q form field.\n", UploadField))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) observeFailure(kind pdferrors.ErrorKind) {
	if s.metrics != nil {
		s.metrics.ObserveFailure(kind.String())
	}
}

// readUpload returns the contents of the first UploadField part, reading at
// most maxSize bytes of it
func readUpload(r *http.Request, maxSize int64) ([]byte, string, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return nil, "", errors.New("request must be multipart/form-data")
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, "", fmt.Errorf("invalid multipart request: %w", err)
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, "", errMissingUpload
		}
		if err != nil {
			return nil, "", uploadError(err)
		}
		if part.FormName() != UploadField {
			_ = part.Close()
			continue
		}

		raw, err := io.ReadAll(io.LimitReader(part, maxSize+1))
		_ = part.Close()
		if err != nil {
			return nil, "", uploadError(err)
		}
		if int64(len(raw)) > maxSize {
			return nil, "", errTooLarge
		}
		return raw, part.FileName(), nil
	}
}

func uploadError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return errTooLarge
	}
	return fmt.Errorf("failed to read upload: %w", err)
}

// statusFor maps inspection errors onto HTTP status codes
func statusFor(err error) int {
	if !pdferrors.IsExtractionError(err) {
		return http.StatusInternalServerError
	}
	if pdferrors.KindOf(err) == pdferrors.KindTooLarge {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusUnprocessableEntity
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
