package intelligence

// DocumentType is the label assigned to a classified document
type DocumentType string

const (
	DocumentTypeUnknown                DocumentType = "Unknown"
	DocumentTypeSignedPermissionLetter DocumentType = "Signed Permission Letter"
	DocumentTypeOfferLetter            DocumentType = "Offer Letter"
	DocumentTypeCompletionCertificate  DocumentType = "Completion Certificate"
	DocumentTypeInternshipReport       DocumentType = "Internship Report"
	DocumentTypeStudentFeedback        DocumentType = "Student Feedback (About Internship)"
	DocumentTypeEmployerFeedback       DocumentType = "Employer Feedback (About student)"
)

// UnknownLabel is returned when no category matches
const UnknownLabel = string(DocumentTypeUnknown)

// String returns the label as written in results
func (t DocumentType) String() string {
	return string(t)
}

// Category is one entry of a taxonomy: a label and the phrases that select it
type Category struct {
	DocumentType DocumentType `json:"document_type"`
	Keywords     []string     `json:"keywords"`
	Description  string       `json:"description,omitempty"`
}

// Taxonomy is an ordered list of categories. Earlier categories take
// precedence over later ones.
type Taxonomy []Category

// Labels returns the category labels in evaluation order
func (t Taxonomy) Labels() []string {
	labels := make([]string, 0, len(t))
	for _, c := range t {
		labels = append(labels, c.DocumentType.String())
	}
	return labels
}

// Classification is the result of classifying one text
type Classification struct {
	DocumentType DocumentType `json:"document_type"`
	// Trigger is the keyword that selected DocumentType, empty for Unknown
	Trigger string `json:"trigger,omitempty"`
}

// DateMatch is one date-like substring found in a text
type DateMatch struct {
	Pattern    string `json:"pattern"`
	Raw        string `json:"raw"`
	Offset     int    `json:"offset"`
	Normalized string `json:"normalized,omitempty"`
	Valid      bool   `json:"valid"`
}
