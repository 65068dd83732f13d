package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorKind categorizes why a document could not be turned into text
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindEmptyInput
	KindInvalidHeader
	KindCorruptedStructure
	KindEncrypted
	KindNoPages
	KindTooLarge
	KindMalformedPage
)

// String returns the wire name of the kind
func (k ErrorKind) String() string {
	switch k {
	case KindEmptyInput:
		return "EMPTY_INPUT"
	case KindInvalidHeader:
		return "INVALID_HEADER"
	case KindCorruptedStructure:
		return "CORRUPTED_STRUCTURE"
	case KindEncrypted:
		return "ENCRYPTED"
	case KindNoPages:
		return "NO_PAGES"
	case KindTooLarge:
		return "TOO_LARGE"
	case KindMalformedPage:
		return "MALFORMED_PAGE"
	default:
		return "UNKNOWN"
	}
}

// ExtractionError is returned when a byte buffer cannot be read as a PDF
type ExtractionError struct {
	Kind    ErrorKind
	Message string
	Page    int // 1-based, zero when not page specific
	Err     error
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Page > 0 {
		msg = fmt.Sprintf("%s (page %d)", msg, e.Page)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying library error
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// New creates an ExtractionError without an underlying cause
func New(kind ErrorKind, message string) *ExtractionError {
	return &ExtractionError{Kind: kind, Message: message}
}

// Wrap creates an ExtractionError around err
func Wrap(kind ErrorKind, message string, err error) *ExtractionError {
	return &ExtractionError{Kind: kind, Message: message, Err: err}
}

// WithPage records the page the error occurred on
func (e *ExtractionError) WithPage(page int) *ExtractionError {
	e.Page = page
	return e
}

// IsExtractionError reports whether err is, or wraps, an ExtractionError
func IsExtractionError(err error) bool {
	var target *ExtractionError
	return stderrors.As(err, &target)
}

// KindOf returns the kind of the first ExtractionError in err's chain,
// or KindUnknown when there is none.
func KindOf(err error) ErrorKind {
	var target *ExtractionError
	if stderrors.As(err, &target) {
		return target.Kind
	}
	return KindUnknown
}
