package intelligence

// DefaultTaxonomy returns the internship document taxonomy. The order is
// the evaluation order: a text mentioning "approval" is a permission letter
// even when it also reads like an offer.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{
			DocumentType: DocumentTypeSignedPermissionLetter,
			Keywords:     []string{"permission letter", "signed letter", "approval"},
			Description:  "Institution permission for a student to take up an internship",
		},
		{
			DocumentType: DocumentTypeOfferLetter,
			Keywords:     []string{"offer letter", "employment offer", "job offer"},
			Description:  "Offer issued by the host organization",
		},
		{
			DocumentType: DocumentTypeCompletionCertificate,
			Keywords:     []string{"completion certificate", "certification", "internship completed"},
			Description:  "Certificate confirming the internship was completed",
		},
		{
			DocumentType: DocumentTypeInternshipReport,
			Keywords:     []string{"internship report", "work summary", "project report"},
			Description:  "Report written by the student about the work done",
		},
		{
			DocumentType: DocumentTypeStudentFeedback,
			Keywords:     []string{"student feedback", "internship experience", "review"},
			Description:  "Feedback from the student about the internship",
		},
		{
			DocumentType: DocumentTypeEmployerFeedback,
			Keywords:     []string{"employer feedback", "performance review", "student evaluation"},
			Description:  "Feedback from the employer about the student",
		},
	}
}
