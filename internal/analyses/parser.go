package analyses

import (
	"regexp"
	"strconv"
	"strings"

	"legal-docs-backend/internal/documents"
)

// MaxClauses is the number of key clauses kept from a model response.
const MaxClauses = 7

type section int

const (
	sectionSummary section = iota
	sectionClauses
	sectionRisk
	sectionRecommendations
	sectionPlainEnglish
)

var sectionHeaders = map[section]string{
	sectionSummary:         "EXECUTIVE SUMMARY",
	sectionClauses:         "KEY CLAUSES ANALYSIS",
	sectionRisk:            "RISK ASSESSMENT",
	sectionRecommendations: "RECOMMENDATIONS",
	sectionPlainEnglish:    "PLAIN ENGLISH EXPLANATION",
}

// sectionEnds lists the header that closes each extracted section.
var sectionEnds = map[section]section{
	sectionSummary: sectionClauses,
	sectionClauses: sectionRisk,
	sectionRisk:    sectionPlainEnglish,
}

var (
	clauseMarker = regexp.MustCompile(`(?m)^[ \t]*[*#_]*[ \t]*(\d+)\.`)

	// Labels may sit behind a bullet and bold markers: "* **Exact Clause Reference:**".
	subFieldSep = regexp.MustCompile(`\n[ \t]*[*_-]*[ \t]*[*_]*[A-Z][a-zA-Z ]*[a-zA-Z][*_]*:`)
)

// ParsedAnalysis is the structured form of a model analysis response.
type ParsedAnalysis struct {
	Summary        string
	KeyClauses     []documents.ClauseRecord
	RiskAssessment string
	// Missing names the section headers that were not found.
	Missing []string
}

// ParseAnalysis splits a raw analysis response into its sections. It never
// fails; sections that cannot be found are left empty.
func ParseAnalysis(raw string) ParsedAnalysis {
	var out ParsedAnalysis
	for _, s := range []section{sectionSummary, sectionClauses, sectionRisk} {
		if !strings.Contains(raw, sectionHeaders[s]) {
			out.Missing = append(out.Missing, sectionHeaders[s])
		}
	}

	out.Summary = strings.TrimSpace(sectionText(raw, sectionSummary))
	out.KeyClauses = parseClauses(sectionText(raw, sectionClauses))
	out.RiskAssessment = strings.TrimSpace(sectionText(raw, sectionRisk))
	return out
}

// sectionText returns the text between the section's header and the header
// that closes it, or the end of raw when the closing header is absent.
func sectionText(raw string, s section) string {
	header := sectionHeaders[s]
	start := strings.Index(raw, header)
	if start < 0 {
		return ""
	}
	body := raw[start+len(header):]
	if end := strings.Index(body, sectionHeaders[sectionEnds[s]]); end >= 0 {
		body = body[:end]
	}
	return body
}

func parseClauses(body string) []documents.ClauseRecord {
	markers := clauseMarker.FindAllStringSubmatchIndex(body, -1)
	clauses := make([]documents.ClauseRecord, 0, MaxClauses)
	for i := 0; i < len(markers) && i < MaxClauses; i++ {
		m := markers[i]
		number, err := strconv.Atoi(body[m[2]:m[3]])
		if err != nil {
			continue
		}
		end := len(body)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		pieces := splitSubFields(body[m[1]:end])
		if len(pieces) < 2 {
			continue
		}
		clauses = append(clauses, documents.ClauseRecord{
			ClauseNumber: number,
			Reference:    piece(pieces, 1),
			Explanation:  piece(pieces, 2),
			Implications: piece(pieces, 3),
			Impact:       piece(pieces, 4),
			Concerns:     piece(pieces, 5),
		})
	}
	return clauses
}

func splitSubFields(item string) []string {
	return subFieldSep.Split(item, -1)
}

func piece(pieces []string, idx int) string {
	if idx >= len(pieces) {
		return ""
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(pieces[idx]), "*_"))
}
