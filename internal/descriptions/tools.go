package descriptions

import (
	"sort"
	"strings"
)

// Tool names exposed over MCP
const (
	ToolInspectFile     = "pdf_inspect_file"
	ToolReadFile        = "pdf_read_file"
	ToolValidateFile    = "pdf_validate_file"
	ToolClassifyText    = "pdf_classify_text"
	ToolExtractDates    = "pdf_extract_dates"
	ToolSearchDirectory = "pdf_search_directory"
	ToolServerInfo      = "pdf_server_info"
)

const (
	PDFInspectFileDescription = `Extract the text of a PDF, classify the document and list the dates it mentions.

**When to use:** You have an HR or academic document (offer letter, internship report, certificate, feedback form) and need its type and key dates in one call.

**Why it's useful:** Runs the whole pipeline at once: layout-aware text extraction, first-match keyword classification and date normalization to YYYY-MM-DD.

**Examples:**
• "What kind of document is offer-acme.pdf and when does it start?"
• "Get the completion date from certificates/internship-2025.pdf"

**Response fields:** document_text, document_type (a taxonomy label or "Unknown"), dates (in pattern order, duplicates kept), page_count, date_patterns_version.

**Best practices:** Classification is keyword based and the first matching category wins. Check document_text when the label looks surprising.`

	PDFReadFileDescription = `Extract readable text from a PDF document.

**When to use:** Only the text is needed, without classification or dates.

**Why it's useful:** Reconstructs lines and paragraphs from glyph positions and keeps page order. Pages without text contribute nothing instead of failing the document.

**Examples:**
• "Read contract.pdf so I can summarize it"
• "Check whether scanned-form.pdf has any extractable text"

**Best practices:** A content_type of "scanned_images" means the pages are images; no OCR is performed.`

	PDFValidateFileDescription = `Verify that a file is a readable PDF before processing it.

**When to use:** Before inspecting files of unknown origin, or to explain why inspection failed.

**Why it's useful:** Reports the failure kind (EMPTY_INPUT, INVALID_HEADER, CORRUPTED_STRUCTURE, ENCRYPTED, NO_PAGES, TOO_LARGE) and, for valid files, the page count, PDF version and encryption flag.

**Examples:**
• "Is upload-17.pdf a valid PDF?"
• "Why can't report.pdf be read?"`

	PDFClassifyTextDescription = `Classify text that was already extracted into one document type.

**When to use:** The text came from somewhere else (another tool, a paste, OCR output) and only the document type is needed.

**Why it's useful:** Applies the same ordered taxonomy as pdf_inspect_file and reports which keyword triggered the label.

**Examples:**
• "Classify this text: 'We are pleased to extend an employment offer...'"

**Best practices:** Categories are evaluated in a fixed order and the first one with any matching keyword wins, even when a later category seems closer.`

	PDFExtractDatesDescription = `Find dates in free text and normalize them to YYYY-MM-DD.

**When to use:** You need the dates mentioned in text that is already extracted.

**Why it's useful:** Recognizes "16 June 2025", "June 16, 2025", "16/06/2025" (day first) and "2025-06-16". Invalid calendar dates are dropped silently.

**Examples:**
• "Which dates appear in this paragraph?"
• "Show every date candidate, including the rejected ones" (set verbose=true)

**Best practices:** Numeric dates are always read day first. Output keeps duplicates and is ordered by pattern, then by position.`

	PDFSearchDirectoryDescription = `Find PDF files by name, optionally keeping only one document type.

**When to use:** Locate documents before inspecting them, or list every document of a type.

**Why it's useful:** Fuzzy file-name matching below the configured directory. With document_type set, each candidate is inspected and only matching documents are returned.

**Examples:**
• "Find files with 'offer' in the name"
• "List all Completion Certificate documents in /docs/hr"

**Best practices:** Filtering by document_type reads every candidate file; use a query or limit on large directories.`

	PDFServerInfoDescription = `Describe this server: configuration, taxonomy, date patterns and tools.

**When to use:** At the start of a session, to learn the served directory, file size limit, the document types that can be returned and the supported date formats.

**Examples:**
• "Which document types can you recognize?"
• "Which directory are PDFs served from?"`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ToolInspectFile:     PDFInspectFileDescription,
	ToolReadFile:        PDFReadFileDescription,
	ToolValidateFile:    PDFValidateFileDescription,
	ToolClassifyText:    PDFClassifyTextDescription,
	ToolExtractDates:    PDFExtractDatesDescription,
	ToolSearchDirectory: PDFSearchDirectoryDescription,
	ToolServerInfo:      PDFServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all tools in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary returns the first line of a tool description
func Summary(toolName string) string {
	summary, _, _ := strings.Cut(GetToolDescription(toolName), "\n")
	return summary
}
