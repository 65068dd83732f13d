// Package pdftest builds small PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	// lineHeight keeps consecutive lines close enough to stay one paragraph
	lineHeight = 5.0
	fontSize   = 12.0
)

// Document renders one page per element of pages, one text line per string.
// An empty string leaves a blank line, which reads back as a paragraph break.
// A nil or empty page is rendered without any text.
func Document(tb testing.TB, pages ...[]string) []byte {
	tb.Helper()
	return render(tb, newDoc(), pages)
}

// Protected renders pages like Document, encrypted with the RC4 security
// handler under userPassword.
func Protected(tb testing.TB, userPassword string, pages ...[]string) []byte {
	tb.Helper()
	doc := newDoc()
	doc.SetProtection(gofpdf.CnProtectPrint, userPassword, "owner-"+userPassword)
	return render(tb, doc, pages)
}

// ProtectedAES256 renders pages like Document, encrypted with AES-256 under
// userPassword.
func ProtectedAES256(tb testing.TB, userPassword string, pages ...[]string) []byte {
	tb.Helper()
	plain := Document(tb, pages...)

	conf := model.NewAESConfiguration(userPassword, "owner-"+userPassword, 256)
	var buf bytes.Buffer
	if err := api.Encrypt(bytes.NewReader(plain), &buf, conf); err != nil {
		tb.Fatalf("encrypt test PDF: %v", err)
	}
	return buf.Bytes()
}

// ShiftOffsets inserts a comment line after the header line of raw, which
// leaves every offset in the cross-reference table pointing n bytes short.
func ShiftOffsets(raw []byte, n int) []byte {
	header, rest, _ := bytes.Cut(raw, []byte("\n"))
	comment := "%" + strings.Repeat("x", max(n-2, 0)) + "\n"

	out := make([]byte, 0, len(raw)+len(comment))
	out = append(out, header...)
	out = append(out, '\n')
	out = append(out, comment...)
	return append(out, rest...)
}

func newDoc() *gofpdf.Fpdf {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Arial", "", fontSize)
	return doc
}

func render(tb testing.TB, doc *gofpdf.Fpdf, pages [][]string) []byte {
	tb.Helper()
	for _, lines := range pages {
		doc.AddPage()
		for _, line := range lines {
			if line != "" {
				doc.Cell(0, lineHeight, line)
			}
			doc.Ln(lineHeight)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		tb.Fatalf("render test PDF: %v", err)
	}
	return buf.Bytes()
}

// Raw assembles a PDF from object bodies numbered from 1 and writes a valid
// cross-reference table for them. Object 1 must be the document catalog.
func Raw(objects ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// NoPages returns a well formed document whose page tree is empty
func NoPages() []byte {
	return Raw(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [] /Count 0 >>",
	)
}

// ContentPage returns a one page document drawing content with Helvetica
// bound to /F1. content is a raw content stream such as
// "BT /F1 12 Tf 72 720 Td (Hello) Tj ET".
func ContentPage(content string) []byte {
	return Raw(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		Stream(content),
	)
}

// Stream wraps data in a stream object body with the right /Length
func Stream(data string) string {
	data = strings.TrimSuffix(data, "\n")
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(data), data)
}
