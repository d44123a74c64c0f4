package documents

import "time"

// Response is the outward-facing representation of a document.
type Response struct {
	DocumentID     string         `json:"documentId"`
	FileName       string         `json:"fileName"`
	MimeType       string         `json:"mimeType"`
	SizeBytes      int64          `json:"sizeBytes"`
	UploadedAt     time.Time      `json:"uploadedAt"`
	AnalysisStatus string         `json:"analysisStatus"`
	Summary        *string        `json:"summary,omitempty"`
	KeyClauses     []ClauseRecord `json:"keyClauses,omitempty"`
	RiskAssessment *string        `json:"riskAssessment,omitempty"`
}

// ToResponse maps a document for JSON output.
func ToResponse(doc Document) Response {
	resp := Response{
		DocumentID:     doc.ID,
		FileName:       doc.FileName,
		MimeType:       doc.MimeType,
		SizeBytes:      doc.SizeBytes,
		UploadedAt:     doc.UploadedAt,
		AnalysisStatus: doc.AnalysisStatus,
	}
	if doc.AnalysisStatus == StatusCompleted {
		resp.Summary = doc.Summary
		resp.KeyClauses = doc.KeyClauses
		resp.RiskAssessment = doc.RiskAssessment
	}
	return resp
}
