package llm

import (
	"strings"
	"testing"

	"legal-docs-backend/internal/extract"
)

var analysisHeaders = []string{
	"EXECUTIVE SUMMARY",
	"KEY CLAUSES ANALYSIS",
	"RISK ASSESSMENT",
	"RECOMMENDATIONS",
	"PLAIN ENGLISH EXPLANATION",
}

func TestBuildAnalysisPromptEmbedsTextAndHeadersInOrder(t *testing.T) {
	text := strings.Repeat("The Tenant shall pay rent monthly. ", 20)
	prompt := BuildAnalysisPrompt(text, extract.QualitySufficient)

	if !strings.Contains(prompt, text) {
		t.Fatalf("expected document text in prompt")
	}
	last := -1
	for _, h := range analysisHeaders {
		idx := strings.Index(prompt, "\n"+h+"\n")
		if idx < 0 {
			t.Fatalf("header %q missing", h)
		}
		if idx < last {
			t.Fatalf("header %q out of order", h)
		}
		last = idx
	}
}

func TestBuildAnalysisPromptTruncates(t *testing.T) {
	text := strings.Repeat("a", MaxAnalysisChars) + "TAIL"
	prompt := BuildAnalysisPrompt(text, extract.QualitySufficient)
	if strings.Contains(prompt, "TAIL") {
		t.Fatalf("expected text beyond %d chars to be dropped", MaxAnalysisChars)
	}
	if !strings.Contains(prompt, strings.Repeat("a", MaxAnalysisChars)) {
		t.Fatalf("expected full truncated text in prompt")
	}
}

func TestBuildAnalysisPromptGenericFallback(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		quality extract.Quality
	}{
		{name: "short text", text: "Lease between A and B.", quality: extract.QualitySufficient},
		{name: "insufficient", text: strings.Repeat("x", 500), quality: extract.QualityInsufficient},
		{name: "extraction error", text: strings.Repeat("x", 500), quality: extract.QualityExtractionError},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildAnalysisPrompt(tt.text, tt.quality)
			if prompt != genericAnalysisPrompt {
				t.Fatalf("expected generic prompt")
			}
			if strings.Contains(prompt, tt.text) {
				t.Fatalf("generic prompt must not embed the text")
			}
		})
	}
}

func TestBuildQuestionPrompt(t *testing.T) {
	text := strings.Repeat("Either party may terminate with 30 days written notice. ", 4)
	question := "What is the termination notice period?"

	prompt := BuildQuestionPrompt(text, extract.QualitySufficient, "application/pdf", question)
	if !strings.Contains(prompt, text) || !strings.Contains(prompt, "QUESTION: "+question) {
		t.Fatalf("expected text and question in prompt: %s", prompt)
	}

	long := strings.Repeat("b", MaxQuestionChars+10)
	prompt = BuildQuestionPrompt(long, extract.QualitySufficient, "text/plain", question)
	if strings.Contains(prompt, strings.Repeat("b", MaxQuestionChars+1)) {
		t.Fatalf("expected question prompt truncated to %d chars", MaxQuestionChars)
	}
}

func TestBuildQuestionPromptGenericFallback(t *testing.T) {
	prompt := BuildQuestionPrompt("tiny", extract.QualitySufficient, "application/msword", "Who are the parties?")
	if !strings.Contains(prompt, "Document type: application/msword") {
		t.Fatalf("expected media type in generic prompt: %s", prompt)
	}
	if !strings.Contains(prompt, "Question: Who are the parties?") {
		t.Fatalf("expected question in generic prompt: %s", prompt)
	}
	if !strings.Contains(prompt, "content is unavailable") {
		t.Fatalf("expected unavailability statement: %s", prompt)
	}
}

func TestBuildQuestionPromptEmbedsExtractionPlaceholder(t *testing.T) {
	placeholder := "Failed to extract text from PDF: malformed xref table. The file may be corrupted, password-protected, or in an unsupported format."
	if len(placeholder) < minQuestionChars {
		t.Fatalf("placeholder must be at least %d chars, got %d", minQuestionChars, len(placeholder))
	}
	for _, quality := range []extract.Quality{extract.QualityExtractionError, extract.QualityInsufficient} {
		prompt := BuildQuestionPrompt(placeholder, quality, "application/pdf", "Who signs the lease?")
		if !strings.Contains(prompt, placeholder) {
			t.Fatalf("quality %s: expected placeholder embedded in grounded prompt: %s", quality, prompt)
		}
		if !strings.Contains(prompt, "QUESTION: Who signs the lease?") {
			t.Fatalf("quality %s: expected grounded question template: %s", quality, prompt)
		}
		if strings.Contains(prompt, "content is unavailable") {
			t.Fatalf("quality %s: generic template used for long text", quality)
		}
	}
}

func TestTruncateRunesKeepsCharacterBoundaries(t *testing.T) {
	if got := truncateRunes("§§§§", 2); got != "§§" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateRunes("abc", 5); got != "abc" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
