package pdf

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/pdf-doc-inspector/internal/logger"
	pdferrors "github.com/a3tai/pdf-doc-inspector/internal/pdf/errors"
)

const (
	// PageSeparator is written between the texts of consecutive pages
	PageSeparator = "\n\n"

	// headerSearchWindow bounds how far into the buffer the %PDF- marker may sit
	headerSearchWindow = 1024

	// DefaultMaxTextSize caps the extracted text of a single document
	DefaultMaxTextSize = 10 * 1024 * 1024
)

var pdfHeader = []byte("%PDF-")

// Content types reported for an extraction
const (
	ContentTypeText          = "text"
	ContentTypeScannedImages = "scanned_images"
	ContentTypeMixed         = "mixed"
	ContentTypeNoContent     = "no_content"
)

// Extraction is the text of one document plus what was learned reading it
type Extraction struct {
	Text        string   `json:"text"`
	Pages       []string `json:"-"`
	PageCount   int      `json:"page_count"`
	ContentType string   `json:"content_type"`
	ImageCount  int      `json:"image_count"`
	Truncated   bool     `json:"truncated,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Reader turns PDF bytes into linear text
type Reader struct {
	maxTextSize int
	layout      LayoutParams
	log         logger.Logger
}

// NewReader creates a reader with the default layout parameters
func NewReader(log logger.Logger) *Reader {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Reader{
		maxTextSize: DefaultMaxTextSize,
		layout:      DefaultLayoutParams(),
		log:         log,
	}
}

// Extract parses raw as a PDF and returns the text of all pages in page
// order. Pages without text contribute an empty string; only failures that
// prevent reading the document as a whole are returned as errors.
func (r *Reader) Extract(raw []byte) (*Extraction, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, pdferrors.New(pdferrors.KindEmptyInput, "document is empty")
	}

	data, err := trimToHeader(raw)
	if err != nil {
		return nil, err
	}

	var warnings []string
	pdfReader, openErr := open(data)
	if openErr != nil {
		extractionErr := classifyOpenError(openErr)
		if extractionErr.Kind != pdferrors.KindCorruptedStructure {
			return nil, extractionErr
		}
		repaired, err := r.repair(data)
		if err != nil {
			if pdferrors.KindOf(err) == pdferrors.KindEncrypted {
				return nil, pdferrors.Wrap(pdferrors.KindEncrypted, "document is encrypted", openErr)
			}
			return nil, extractionErr
		}
		if pdfReader, err = open(repaired); err != nil {
			r.log.Debug("rebuilt document still unreadable", "error", err)
			return nil, extractionErr
		}
		warnings = append(warnings, "cross-reference table was rebuilt: "+openErr.Error())
	}

	numPages := 0
	if err := pdferrors.Guard("resolve page tree", func() error {
		numPages = pdfReader.NumPage()
		return nil
	}); err != nil {
		return nil, pdferrors.Wrap(pdferrors.KindCorruptedStructure, "page tree could not be resolved", err)
	}
	if numPages == 0 {
		return nil, pdferrors.New(pdferrors.KindNoPages, "document has no pages")
	}

	result := &Extraction{
		Pages:     make([]string, 0, numPages),
		PageCount: numPages,
		Warnings:  warnings,
	}
	r.extractTextContent(pdfReader, result)
	result.ImageCount = r.detectImages(pdfReader)
	result.ContentType = analyzeContentType(result.Text, result.ImageCount)

	return result, nil
}

// trimToHeader drops any bytes preceding the %PDF- marker. Mail gateways and
// some upload clients prepend junk; object offsets are relative to the marker.
func trimToHeader(raw []byte) ([]byte, error) {
	window := raw
	if len(window) > headerSearchWindow {
		window = window[:headerSearchWindow]
	}
	idx := bytes.Index(window, pdfHeader)
	if idx < 0 {
		return nil, pdferrors.New(pdferrors.KindInvalidHeader, "missing %PDF- header")
	}
	return raw[idx:], nil
}

func open(data []byte) (*pdf.Reader, error) {
	var pdfReader *pdf.Reader
	err := pdferrors.Guard("open document", func() error {
		var err error
		pdfReader, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
		return err
	})
	return pdfReader, err
}

// repair reads data with pdfcpu in relaxed mode and writes it back with a new
// cross-reference table. ledongthuc only follows the table as written and
// only understands the RC4 and AES-128 security handlers, so files it
// rejects as malformed are either encrypted with another handler or
// recoverable here.
func (r *Reader) repair(data []byte) ([]byte, error) {
	ctx, err := readRelaxed(data)
	if err != nil {
		return nil, err
	}
	if ctx.Encrypt != nil {
		return nil, pdferrors.New(pdferrors.KindEncrypted, "document is encrypted")
	}
	repaired, err := rewrite(ctx)
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.KindCorruptedStructure, "document could not be rebuilt", err)
	}
	r.log.Debug("rebuilt cross-reference table", "size", len(data), "rebuilt_size", len(repaired))
	return repaired, nil
}

func classifyOpenError(err error) *pdferrors.ExtractionError {
	if stderrors.Is(err, pdf.ErrInvalidPassword) {
		return pdferrors.Wrap(pdferrors.KindEncrypted, "document is encrypted", err)
	}
	msg := err.Error()
	if strings.Contains(msg, "header") {
		return pdferrors.Wrap(pdferrors.KindInvalidHeader, "invalid PDF header", err)
	}
	return pdferrors.Wrap(pdferrors.KindCorruptedStructure, "cannot read cross-reference table or trailer", err)
}

// extractTextContent fills result.Pages and result.Text. Page failures are
// recorded as warnings and yield an empty page.
func (r *Reader) extractTextContent(pdfReader *pdf.Reader, result *Extraction) {
	var builder strings.Builder

	for pageNum := 1; pageNum <= result.PageCount; pageNum++ {
		pageText, err := r.pageText(pdfReader, pageNum)
		if err != nil {
			pageErr := pdferrors.Wrap(pdferrors.KindMalformedPage, "page skipped", err).WithPage(pageNum)
			r.log.Warn("page text could not be decoded", "page", pageNum, "error", err)
			result.Warnings = append(result.Warnings, pageErr.Error())
			pageText = ""
		}

		separator := ""
		if pageNum > 1 {
			separator = PageSeparator
		}

		if builder.Len()+len(separator)+len(pageText) > r.maxTextSize {
			kept := ""
			if remaining := r.maxTextSize - builder.Len() - len(separator); remaining > 0 {
				kept = truncateUTF8(pageText, remaining)
				builder.WriteString(separator)
				builder.WriteString(kept)
			}
			result.Pages = append(result.Pages, kept)
			result.Truncated = true
			r.log.Warn("text limit reached, truncating", "page", pageNum, "limit", r.maxTextSize)
			break
		}

		builder.WriteString(separator)
		builder.WriteString(pageText)
		result.Pages = append(result.Pages, pageText)
	}

	result.Text = builder.String()
}

func (r *Reader) pageText(pdfReader *pdf.Reader, pageNum int) (string, error) {
	var text string
	err := pdferrors.Guard(fmt.Sprintf("decode page %d", pageNum), func() error {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			return nil
		}
		text = r.layout.PageText(page.Content().Text)
		return nil
	})
	return text, err
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// analyzeContentType tells text documents apart from scans and empty files
func analyzeContentType(text string, imageCount int) string {
	// Below this many characters a page set is treated as having no real text
	const minMeaningfulTextLength = 50

	clean := strings.TrimSpace(text)
	hasImages := imageCount > 0

	if len(clean) < minMeaningfulTextLength {
		if hasImages {
			return ContentTypeScannedImages
		}
		if clean == "" {
			return ContentTypeNoContent
		}
		return ContentTypeText
	}

	if hasImages {
		return ContentTypeMixed
	}
	return ContentTypeText
}

// detectImages counts image XObjects over all pages
func (r *Reader) detectImages(pdfReader *pdf.Reader) int {
	imageCount := 0
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		imageCount += r.countImagesOnPage(pdfReader, pageNum)
	}
	return imageCount
}

func (r *Reader) countImagesOnPage(pdfReader *pdf.Reader, pageNum int) int {
	imageCount := 0
	err := pdferrors.Guard("count images", func() error {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			return nil
		}

		xObjects := page.Resources().Key("XObject")
		if xObjects.Kind() != pdf.Dict {
			return nil
		}

		for _, key := range xObjects.Keys() {
			if xObjects.Key(key).Key("Subtype").Name() == "Image" {
				imageCount++
			}
		}
		return nil
	})
	if err != nil {
		r.log.Debug("image detection failed", "page", pageNum, "error", err)
		return 0
	}
	return imageCount
}
