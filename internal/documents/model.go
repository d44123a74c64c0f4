package documents

import (
	"errors"
	"time"
)

// Analysis status values. A document starts pending, moves to processing
// when an analysis begins, and settles in completed or failed.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedType is returned for uploads outside the accepted media types.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Document is an uploaded legal document and its latest analysis.
// Summary, KeyClauses and RiskAssessment are only set once AnalysisStatus is completed.
type Document struct {
	ID             string
	FileName       string
	FilePath       string
	MimeType       string
	SizeBytes      int64
	Checksum       string
	UploadedAt     time.Time
	AnalysisStatus string
	Summary        *string
	KeyClauses     []ClauseRecord
	RiskAssessment *string
}

// ClauseRecord is one analysed clause. All text fields are present, possibly empty.
type ClauseRecord struct {
	ClauseNumber int    `json:"clause_number"`
	Reference    string `json:"reference"`
	Explanation  string `json:"explanation"`
	Implications string `json:"implications"`
	Impact       string `json:"impact"`
	Concerns     string `json:"concerns"`
}

// Analysis is the completed-analysis triple written in a single update.
type Analysis struct {
	Summary        string
	KeyClauses     []ClauseRecord
	RiskAssessment string
}

// HasAnalysis reports whether the document carries a usable stored analysis.
func (d Document) HasAnalysis() bool {
	return d.AnalysisStatus == StatusCompleted && d.Summary != nil && *d.Summary != ""
}
