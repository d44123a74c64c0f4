package analyses

import (
	"fmt"
	"strings"
	"testing"
)

func syntheticResponse(clauses int) string {
	var b strings.Builder
	b.WriteString("EXECUTIVE SUMMARY\nThis is a residential lease between Alpha LLC and Beta Corp.\n\n")
	b.WriteString("KEY CLAUSES ANALYSIS\n")
	for i := 1; i <= clauses; i++ {
		fmt.Fprintf(&b, "%d. Clause title %d\n", i, i)
		fmt.Fprintf(&b, "Exact Clause Reference: Section %d\n", i)
		fmt.Fprintf(&b, "Plain English Explanation: explanation %d\n", i)
		fmt.Fprintf(&b, "Legal Implications: implications %d\n", i)
		fmt.Fprintf(&b, "Business Impact: impact %d\n", i)
		fmt.Fprintf(&b, "Potential Concerns: concerns %d\n\n", i)
	}
	b.WriteString("RISK ASSESSMENT\nHIGH-RISK ISSUES\n- Uncapped indemnity\n\n")
	b.WriteString("RECOMMENDATIONS\n- Negotiate a cap\n\n")
	b.WriteString("PLAIN ENGLISH EXPLANATION\nYou rent a flat.\n")
	return b.String()
}

func TestParseAnalysisRoundTrip(t *testing.T) {
	parsed := ParseAnalysis(syntheticResponse(7))

	if parsed.Summary != "This is a residential lease between Alpha LLC and Beta Corp." {
		t.Fatalf("unexpected summary %q", parsed.Summary)
	}
	if len(parsed.KeyClauses) != 7 {
		t.Fatalf("expected 7 clauses, got %d", len(parsed.KeyClauses))
	}
	for i, c := range parsed.KeyClauses {
		n := i + 1
		if c.ClauseNumber != n {
			t.Fatalf("clause %d has number %d", n, c.ClauseNumber)
		}
		if c.Reference != fmt.Sprintf("Section %d", n) ||
			c.Explanation != fmt.Sprintf("explanation %d", n) ||
			c.Implications != fmt.Sprintf("implications %d", n) ||
			c.Impact != fmt.Sprintf("impact %d", n) ||
			c.Concerns != fmt.Sprintf("concerns %d", n) {
			t.Fatalf("clause %d fields misaligned: %+v", n, c)
		}
	}
	if !strings.HasPrefix(parsed.RiskAssessment, "HIGH-RISK ISSUES") {
		t.Fatalf("unexpected risk assessment %q", parsed.RiskAssessment)
	}
	if strings.Contains(parsed.RiskAssessment, "You rent a flat") {
		t.Fatalf("risk assessment must stop at the plain English section")
	}
	if len(parsed.Missing) != 0 {
		t.Fatalf("expected no missing sections, got %v", parsed.Missing)
	}
}

func TestParseAnalysisKeepsFirstSevenClauses(t *testing.T) {
	parsed := ParseAnalysis(syntheticResponse(9))
	if len(parsed.KeyClauses) != MaxClauses {
		t.Fatalf("expected %d clauses, got %d", MaxClauses, len(parsed.KeyClauses))
	}
	if last := parsed.KeyClauses[MaxClauses-1]; last.ClauseNumber != 7 || last.Concerns != "concerns 7" {
		t.Fatalf("unexpected last clause %+v", last)
	}
}

func TestParseAnalysisMissingHeader(t *testing.T) {
	raw := strings.Replace(syntheticResponse(3), "RISK ASSESSMENT", "RISK OVERVIEW", 1)
	parsed := ParseAnalysis(raw)

	if parsed.RiskAssessment != "" {
		t.Fatalf("expected empty risk assessment, got %q", parsed.RiskAssessment)
	}
	if parsed.Summary == "" {
		t.Fatalf("summary should be unaffected")
	}
	if len(parsed.KeyClauses) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(parsed.KeyClauses))
	}
	if len(parsed.Missing) != 1 || parsed.Missing[0] != "RISK ASSESSMENT" {
		t.Fatalf("expected RISK ASSESSMENT missing, got %v", parsed.Missing)
	}
}

func TestParseAnalysisShortSubFieldsDefaultEmpty(t *testing.T) {
	raw := "EXECUTIVE SUMMARY\nShort.\nKEY CLAUSES ANALYSIS\n1. Payment\nExact Clause Reference: Clause 2\nPlain English Explanation: Pay on time.\n2. No labels here at all\nRISK ASSESSMENT\nLow."
	parsed := ParseAnalysis(raw)

	if len(parsed.KeyClauses) != 1 {
		t.Fatalf("expected unlabelled clause dropped, got %+v", parsed.KeyClauses)
	}
	c := parsed.KeyClauses[0]
	if c.Reference != "Clause 2" || c.Explanation != "Pay on time." {
		t.Fatalf("unexpected clause %+v", c)
	}
	if c.Implications != "" || c.Impact != "" || c.Concerns != "" {
		t.Fatalf("expected missing sub-fields to be empty, got %+v", c)
	}
}

func TestParseAnalysisHandlesMarkdown(t *testing.T) {
	raw := "**EXECUTIVE SUMMARY**\nA lease.\n\n**KEY CLAUSES ANALYSIS**\n\n**1. Rent**\n**Exact Clause Reference:** Section 3\n**Plain English Explanation:** Pay monthly.\n\n**RISK ASSESSMENT**\nMedium."
	parsed := ParseAnalysis(raw)

	if len(parsed.KeyClauses) != 1 {
		t.Fatalf("expected 1 clause, got %+v", parsed.KeyClauses)
	}
	if parsed.KeyClauses[0].Reference != "Section 3" || parsed.KeyClauses[0].Explanation != "Pay monthly." {
		t.Fatalf("unexpected clause %+v", parsed.KeyClauses[0])
	}
}

func TestParseAnalysisHandlesBulletedBoldLabels(t *testing.T) {
	raw := "EXECUTIVE SUMMARY\nA lease.\n\nKEY CLAUSES ANALYSIS\n\n**1. Rent**\n" +
		"* **Exact Clause Reference:** Section 3\n" +
		"* **Plain English Explanation:** Pay monthly.\n" +
		"- __Legal Implications:__ Late fees apply.\n\n" +
		"RISK ASSESSMENT\nMedium."
	parsed := ParseAnalysis(raw)

	if len(parsed.KeyClauses) != 1 {
		t.Fatalf("expected 1 clause, got %+v", parsed.KeyClauses)
	}
	c := parsed.KeyClauses[0]
	if c.Reference != "Section 3" || c.Explanation != "Pay monthly." || c.Implications != "Late fees apply." {
		t.Fatalf("unexpected clause %+v", c)
	}
}

func TestParseAnalysisEmptyInput(t *testing.T) {
	parsed := ParseAnalysis("")
	if parsed.Summary != "" || parsed.RiskAssessment != "" || len(parsed.KeyClauses) != 0 {
		t.Fatalf("expected empty result, got %+v", parsed)
	}
	if len(parsed.Missing) != 3 {
		t.Fatalf("expected all sections missing, got %v", parsed.Missing)
	}
}
