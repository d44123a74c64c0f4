package reports

import (
	"errors"
	"strings"
	"time"

	"legal-docs-backend/internal/chats"
	"legal-docs-backend/internal/documents"
)

// Export formats.
const (
	FormatText = "text"
	FormatWord = "word"
)

// ErrUnsupportedFormat is returned for export formats that cannot be rendered.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Sections selects which parts of the analysis go into a report. Nil fields
// default to included.
type Sections struct {
	Summary *bool `json:"summary"`
	Clauses *bool `json:"clauses"`
	Risks   *bool `json:"risks"`
	QA      *bool `json:"qa"`
}

func include(flag *bool) bool {
	return flag == nil || *flag
}

// Report is everything a renderer needs. Text fields are cleaned of markdown
// artefacts by NewReport.
type Report struct {
	DocumentID     string
	FileName       string
	GeneratedAt    time.Time
	Summary        string
	KeyClauses     []documents.ClauseRecord
	RiskAssessment string
	QA             []chats.Message
	Sections       Sections
}

// NewReport builds a Report from a completed document and its chat history.
func NewReport(doc documents.Document, history []chats.Message, sections Sections, now time.Time) Report {
	r := Report{
		DocumentID:  doc.ID,
		FileName:    doc.FileName,
		GeneratedAt: now.UTC(),
		QA:          history,
		Sections:    sections,
	}
	if doc.Summary != nil {
		r.Summary = CleanMarkdown(*doc.Summary)
	}
	if doc.RiskAssessment != nil {
		r.RiskAssessment = CleanMarkdown(*doc.RiskAssessment)
	}
	r.KeyClauses = make([]documents.ClauseRecord, 0, len(doc.KeyClauses))
	for _, c := range doc.KeyClauses {
		r.KeyClauses = append(r.KeyClauses, documents.ClauseRecord{
			ClauseNumber: c.ClauseNumber,
			Reference:    CleanMarkdown(c.Reference),
			Explanation:  CleanMarkdown(c.Explanation),
			Implications: CleanMarkdown(c.Implications),
			Impact:       CleanMarkdown(c.Impact),
			Concerns:     CleanMarkdown(c.Concerns),
		})
	}
	return r
}

// Render produces the report in the requested format and returns the bytes,
// the content type and the attachment file name.
func Render(r Report, format string) ([]byte, string, string, error) {
	base := baseName(r.FileName)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText, "txt":
		return []byte(RenderText(r)), "text/plain; charset=utf-8", base + "_analysis.txt", nil
	case FormatWord, "docx":
		data, err := RenderDOCX(r)
		if err != nil {
			return nil, "", "", err
		}
		return data, docxContentType, base + "_analysis.docx", nil
	default:
		return nil, "", "", ErrUnsupportedFormat
	}
}

func baseName(fileName string) string {
	name := strings.TrimSpace(fileName)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	if name == "" {
		return "document"
	}
	return name
}

// riskLevel classifies a risk-assessment line by its tier keywords.
func riskLevel(line string) string {
	upper := strings.ToUpper(line)
	switch {
	case containsAny(upper, "HIGH-RISK", "CRITICAL", "SEVERE"):
		return "high"
	case containsAny(upper, "MEDIUM-RISK", "MODERATE"):
		return "medium"
	case containsAny(upper, "LOW-RISK", "MINIMAL"):
		return "low"
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
