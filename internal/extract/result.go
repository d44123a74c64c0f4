package extract

import "fmt"

// Quality grades how usable extracted text is for analysis.
type Quality string

const (
	QualitySufficient      Quality = "sufficient"
	QualityInsufficient    Quality = "insufficient"
	QualityExtractionError Quality = "extraction-error"
)

// Result is the outcome of an extraction. Text is always populated: on
// failure it carries a human-readable explanation instead of document content.
type Result struct {
	Text    string
	Quality Quality
	// Reason is a short machine-friendly cause for non-sufficient results.
	Reason string
}

// Degraded reports whether Text is a placeholder rather than real content.
func (r Result) Degraded() bool {
	return r.Quality != QualitySufficient
}

const (
	reasonScanned     = "pdf_scanned"
	reasonPDFFailed   = "pdf_unreadable"
	reasonTooShort    = "too_short"
	reasonUndecodable = "undecodable"
	reasonNotFound    = "file_not_found"
	reasonReadFailed  = "read_failed"
)

func scannedPDF(directLen int) Result {
	return Result{
		Text: fmt.Sprintf("This PDF appears to be scanned or image-based. Direct text extraction returned only %d characters, "+
			"which is not enough for a meaningful analysis, and OCR did not recover more text. The file may consist of images, "+
			"forms, or scanned pages. Please upload a text-based PDF or convert the document with an OCR tool first.", directLen),
		Quality: QualityInsufficient,
		Reason:  reasonScanned,
	}
}

func pdfFailed(err error) Result {
	return Result{
		Text: fmt.Sprintf("Failed to extract text from PDF: %v. The file may be corrupted, password-protected, "+
			"or in an unsupported format.", err),
		Quality: QualityExtractionError,
		Reason:  reasonPDFFailed,
	}
}

func tooShort(length int) Result {
	return Result{
		Text: fmt.Sprintf("Document appears to be too short or empty (%d characters). The file may not have been read "+
			"correctly or its format is not supported.", length),
		Quality: QualityInsufficient,
		Reason:  reasonTooShort,
	}
}

func undecodable(mediaType string) Result {
	return Result{
		Text: fmt.Sprintf("Unable to decode document content. The file looks binary and needs specialised text "+
			"extraction. File type: %s", mediaType),
		Quality: QualityExtractionError,
		Reason:  reasonUndecodable,
	}
}

func notFound(path string) Result {
	return Result{
		Text:    fmt.Sprintf("Document file not found at path: %s", path),
		Quality: QualityExtractionError,
		Reason:  reasonNotFound,
	}
}

func readFailed(err error) Result {
	return Result{
		Text:    fmt.Sprintf("Error reading document: %v", err),
		Quality: QualityExtractionError,
		Reason:  reasonReadFailed,
	}
}
