package reports

import (
	"fmt"
	"strings"
)

const timestampLayout = "2006-01-02 15:04:05 UTC"

// RenderText renders the plain-text report.
func RenderText(r Report) string {
	var b strings.Builder
	b.WriteString("LEGAL DOCUMENT ANALYSIS REPORT\n\n")
	writeHeading(&b, "DOCUMENT INFORMATION")
	fmt.Fprintf(&b, "Document Name: %s\n", r.FileName)
	fmt.Fprintf(&b, "Analysis Date: %s\n", r.GeneratedAt.Format(timestampLayout))
	fmt.Fprintf(&b, "Document ID: %s\n", r.DocumentID)

	if include(r.Sections.Summary) {
		b.WriteString("\n")
		writeHeading(&b, "EXECUTIVE SUMMARY")
		b.WriteString(orDefault(r.Summary, "No summary available"))
		b.WriteString("\n")
	}

	if include(r.Sections.Clauses) {
		b.WriteString("\n")
		writeHeading(&b, "KEY CLAUSES ANALYSIS")
		if len(r.KeyClauses) == 0 {
			b.WriteString("No key clauses identified\n")
		}
		for i, c := range r.KeyClauses {
			fmt.Fprintf(&b, "\n%d. %s\n", i+1, orDefault(c.Reference, "N/A"))
			fmt.Fprintf(&b, "   Explanation: %s\n", orDefault(c.Explanation, "N/A"))
			fmt.Fprintf(&b, "   Legal Implications: %s\n", orDefault(c.Implications, "N/A"))
			fmt.Fprintf(&b, "   Business Impact: %s\n", orDefault(c.Impact, "N/A"))
			fmt.Fprintf(&b, "   Potential Concerns: %s\n", orDefault(c.Concerns, "N/A"))
		}
	}

	if include(r.Sections.Risks) {
		b.WriteString("\n")
		writeHeading(&b, "RISK ASSESSMENT")
		b.WriteString(orDefault(r.RiskAssessment, "No risk assessment available"))
		b.WriteString("\n")
	}

	if include(r.Sections.QA) && len(r.QA) > 0 {
		b.WriteString("\n")
		writeHeading(&b, "Q&A HISTORY")
		for _, m := range r.QA {
			fmt.Fprintf(&b, "\nQuestion: %s\n", m.Question)
			fmt.Fprintf(&b, "Answer: %s\n", CleanMarkdown(m.Answer))
			fmt.Fprintf(&b, "Timestamp: %s\n", m.Timestamp.UTC().Format(timestampLayout))
		}
	}
	return b.String()
}

func writeHeading(b *strings.Builder, title string) {
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(title)))
	b.WriteString("\n")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
