package reports

import (
	"regexp"
	"strings"
)

var (
	headingPrefix = regexp.MustCompile(`(?m)^[ \t]*#+[ \t]*`)
	boldMarkers   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	underscores   = regexp.MustCompile(`__(.*?)__`)
	inlineSpaces  = regexp.MustCompile(`[ \t]+`)
	blankRuns     = regexp.MustCompile(`\n\s*\n\s*\n+`)

	markdownReplacer = strings.NewReplacer(
		"```", "",
		"`", "",
		"*", "",
		"•", "",
		"·", "",
		"▪", "",
		"◦", "",
	)
)

// CleanMarkdown strips markdown emphasis, code fences, heading markers and
// bullet glyphs from model output. Line breaks are kept; runs of blank lines
// collapse to one.
func CleanMarkdown(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = headingPrefix.ReplaceAllString(text, "")
	text = boldMarkers.ReplaceAllString(text, "$1")
	text = underscores.ReplaceAllString(text, "$1")
	text = markdownReplacer.Replace(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpaces.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
