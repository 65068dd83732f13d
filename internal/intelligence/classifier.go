package intelligence

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// DocumentClassifier labels text with the first taxonomy category that has a
// keyword occurring in it. It holds no mutable state and is safe for
// concurrent use.
type DocumentClassifier struct {
	taxonomy Taxonomy
	// folded keywords, parallel to taxonomy
	folded [][]string
}

// NewDocumentClassifier creates a classifier over the default taxonomy
func NewDocumentClassifier() *DocumentClassifier {
	classifier, err := NewDocumentClassifierWithTaxonomy(DefaultTaxonomy())
	if err != nil {
		panic(fmt.Sprintf("default taxonomy is invalid: %v", err))
	}
	return classifier
}

// NewDocumentClassifierWithTaxonomy validates taxonomy and creates a
// classifier over a private copy of it.
func NewDocumentClassifierWithTaxonomy(taxonomy Taxonomy) (*DocumentClassifier, error) {
	if len(taxonomy) == 0 {
		return nil, fmt.Errorf("taxonomy has no categories")
	}

	fold := cases.Fold()
	seen := make(map[DocumentType]bool, len(taxonomy))
	dc := &DocumentClassifier{
		taxonomy: make(Taxonomy, 0, len(taxonomy)),
		folded:   make([][]string, 0, len(taxonomy)),
	}

	for i, category := range taxonomy {
		if strings.TrimSpace(category.DocumentType.String()) == "" {
			return nil, fmt.Errorf("category %d has an empty label", i)
		}
		if category.DocumentType == DocumentTypeUnknown {
			return nil, fmt.Errorf("category %d uses the reserved label %q", i, UnknownLabel)
		}
		if seen[category.DocumentType] {
			return nil, fmt.Errorf("duplicate category %q", category.DocumentType)
		}
		seen[category.DocumentType] = true

		keywords := make([]string, 0, len(category.Keywords))
		folded := make([]string, 0, len(category.Keywords))
		for _, kw := range category.Keywords {
			if strings.TrimSpace(kw) == "" {
				continue
			}
			keywords = append(keywords, kw)
			folded = append(folded, fold.String(kw))
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("category %q has no keywords", category.DocumentType)
		}

		dc.taxonomy = append(dc.taxonomy, Category{
			DocumentType: category.DocumentType,
			Keywords:     keywords,
			Description:  category.Description,
		})
		dc.folded = append(dc.folded, folded)
	}

	return dc, nil
}

// Classify returns the label of text, or UnknownLabel
func (dc *DocumentClassifier) Classify(text string) string {
	return dc.ClassifyWithEvidence(text).DocumentType.String()
}

// ClassifyWithEvidence returns the label of text together with the keyword
// that selected it. Categories are tried in taxonomy order and the first one
// with any keyword present wins, wherever in the text that keyword sits.
func (dc *DocumentClassifier) ClassifyWithEvidence(text string) Classification {
	if strings.TrimSpace(text) == "" {
		return Classification{DocumentType: DocumentTypeUnknown}
	}

	// a Caser keeps state between calls, so each call gets its own
	content := cases.Fold().String(text)

	for i, category := range dc.taxonomy {
		for j, kw := range dc.folded[i] {
			if strings.Contains(content, kw) {
				return Classification{
					DocumentType: category.DocumentType,
					Trigger:      category.Keywords[j],
				}
			}
		}
	}

	return Classification{DocumentType: DocumentTypeUnknown}
}

// Taxonomy returns a copy of the categories in evaluation order
func (dc *DocumentClassifier) Taxonomy() Taxonomy {
	out := make(Taxonomy, len(dc.taxonomy))
	for i, c := range dc.taxonomy {
		out[i] = Category{
			DocumentType: c.DocumentType,
			Keywords:     append([]string(nil), c.Keywords...),
			Description:  c.Description,
		}
	}
	return out
}
