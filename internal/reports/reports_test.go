package reports

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"legal-docs-backend/internal/chats"
	"legal-docs-backend/internal/documents"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func sampleDocument() documents.Document {
	return documents.Document{
		ID:             "doc-1",
		FileName:       "lease.pdf",
		AnalysisStatus: documents.StatusCompleted,
		Summary:        strPtr("## Overview\n\n**Residential lease** between A and B."),
		KeyClauses: []documents.ClauseRecord{
			{ClauseNumber: 1, Reference: "**Section 4** Rent", Explanation: "Rent is due monthly.", Implications: "Late fees apply.", Impact: "Cash flow.", Concerns: ""},
		},
		RiskAssessment: strPtr("HIGH-RISK ISSUES\n- Uncapped liability\n\nMEDIUM-RISK CONCERNS\n- Renewal terms\nLOW-RISK ITEMS\n- Notices clause"),
	}
}

var generatedAt = time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bold and heading", in: "### Title\n**bold** text", want: "Title\nbold text"},
		{name: "bullets and code", in: "• item `code`\n```\nblock\n```", want: "item code\n\nblock"},
		{name: "blank runs collapse", in: "a\n\n\n\nb", want: "a\n\nb"},
		{name: "inline spaces", in: "a  \t b", want: "a b"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanMarkdown(tt.in); got != tt.want {
				t.Fatalf("CleanMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderTextIncludesAllSections(t *testing.T) {
	history := []chats.Message{{Question: "What is the rent?", Answer: "**$1,000** per month.", Timestamp: generatedAt}}
	out := RenderText(NewReport(sampleDocument(), history, Sections{}, generatedAt))

	for _, want := range []string{
		"LEGAL DOCUMENT ANALYSIS REPORT",
		"Document Name: lease.pdf",
		"Analysis Date: 2026-03-01 12:30:00 UTC",
		"EXECUTIVE SUMMARY\n=================\nOverview\n\nResidential lease between A and B.",
		"1. Section 4 Rent",
		"   Potential Concerns: N/A",
		"RISK ASSESSMENT",
		"Q&A HISTORY",
		"Answer: $1,000 per month.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
	if strings.Contains(out, "**") || strings.Contains(out, "##") {
		t.Fatalf("expected markdown stripped:\n%s", out)
	}
}

func TestRenderTextHonoursSectionSelection(t *testing.T) {
	history := []chats.Message{{Question: "Q?", Answer: "A.", Timestamp: generatedAt}}
	sections := Sections{Clauses: boolPtr(false), QA: boolPtr(false)}
	out := RenderText(NewReport(sampleDocument(), history, sections, generatedAt))

	if strings.Contains(out, "KEY CLAUSES ANALYSIS") || strings.Contains(out, "Q&A HISTORY") {
		t.Fatalf("expected excluded sections to be omitted:\n%s", out)
	}
	if !strings.Contains(out, "EXECUTIVE SUMMARY") || !strings.Contains(out, "RISK ASSESSMENT") {
		t.Fatalf("expected default sections present:\n%s", out)
	}
}

func TestRenderSelectsFormat(t *testing.T) {
	r := NewReport(sampleDocument(), nil, Sections{}, generatedAt)

	data, contentType, name, err := Render(r, "text")
	if err != nil || !strings.HasPrefix(contentType, "text/plain") || name != "lease_analysis.txt" || len(data) == 0 {
		t.Fatalf("unexpected text render: %q %q %v", contentType, name, err)
	}

	_, contentType, name, err = Render(r, "word")
	if err != nil || contentType != docxContentType || name != "lease_analysis.docx" {
		t.Fatalf("unexpected word render: %q %q %v", contentType, name, err)
	}

	if _, _, _, err := Render(r, "pdf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestRenderDOCXProducesValidDocument(t *testing.T) {
	history := []chats.Message{{Question: "Who pays <utilities> & taxes?", Answer: "The Tenant.", Timestamp: generatedAt}}
	data, err := RenderDOCX(NewReport(sampleDocument(), history, Sections{}, generatedAt))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	documentXML, err := readDocumentXML(data)
	if err != nil {
		t.Fatalf("read document.xml failed: %v", err)
	}
	decoder := xml.NewDecoder(strings.NewReader(documentXML))
	for {
		if _, err := decoder.Token(); err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("document.xml is not well formed: %v", err)
		}
	}

	assertContains(t, documentXML, "Legal Document Analysis Report")
	assertContains(t, documentXML, "Who pays &lt;utilities&gt; &amp; taxes?")
	assertContains(t, documentXML, `<w:color w:val="FF0000"/></w:rPr><w:t xml:space="preserve">HIGH-RISK ISSUES`)
	assertContains(t, documentXML, `<w:color w:val="FFA500"/></w:rPr><w:t xml:space="preserve">MEDIUM-RISK CONCERNS`)
	assertContains(t, documentXML, `<w:color w:val="008000"/></w:rPr><w:t xml:space="preserve">LOW-RISK ITEMS`)
}

func readDocumentXML(docxBytes []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		return "", err
	}
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}
		return string(content), nil
	}
	return "", io.ErrUnexpectedEOF
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected to find %q", needle)
	}
}
