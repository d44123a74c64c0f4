package llm

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"

	"legal-docs-backend/internal/extract"
)

const (
	// MaxAnalysisChars caps the document text embedded in analysis prompts.
	MaxAnalysisChars = 12000
	// MaxQuestionChars caps the document text embedded in question prompts.
	MaxQuestionChars = 10000

	minAnalysisChars = 200
	minQuestionChars = 100
)

var (
	//go:embed prompts/analysis.txt
	analysisPromptText string
	//go:embed prompts/analysis_generic.txt
	genericAnalysisPrompt string
	//go:embed prompts/question.txt
	questionPromptText string
	//go:embed prompts/question_generic.txt
	genericQuestionPromptText string

	analysisTmpl        = template.Must(template.New("analysis").Parse(analysisPromptText))
	questionTmpl        = template.Must(template.New("question").Parse(questionPromptText))
	genericQuestionTmpl = template.Must(template.New("question_generic").Parse(genericQuestionPromptText))
)

type promptData struct {
	Text      string
	Question  string
	MediaType string
}

// BuildAnalysisPrompt frames document text for the structured analysis request.
// Degraded or very short text gets the generic prompt instead.
func BuildAnalysisPrompt(text string, quality extract.Quality) string {
	if quality != extract.QualitySufficient || len([]rune(strings.TrimSpace(text))) < minAnalysisChars {
		return genericAnalysisPrompt
	}
	return render(analysisTmpl, promptData{Text: truncateRunes(text, MaxAnalysisChars)})
}

// BuildQuestionPrompt frames a question about the document. Only the length of
// the text decides the template: extraction placeholders are embedded like
// document content, so quality does not change the prompt.
func BuildQuestionPrompt(text string, _ extract.Quality, mediaType, question string) string {
	if len([]rune(strings.TrimSpace(text))) < minQuestionChars {
		return render(genericQuestionTmpl, promptData{Question: question, MediaType: mediaType})
	}
	return render(questionTmpl, promptData{Text: truncateRunes(text, MaxQuestionChars), Question: question})
}

func render(tmpl *template.Template, data promptData) string {
	var buf bytes.Buffer
	// Templates are parsed at init and only reference promptData fields.
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(err)
	}
	return buf.String()
}

func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
