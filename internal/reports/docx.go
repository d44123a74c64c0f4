package reports

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const (
	documentOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentClose = `<w:sectPr/></w:body></w:document>`
)

// RenderDOCX renders the report as a Word document. Risk lines are coloured
// by tier.
func RenderDOCX(r Report) ([]byte, error) {
	var body bytes.Buffer
	body.WriteString(documentOpen)
	writeParagraph(&body, "Legal Document Analysis Report", StyleMap["title"])

	writeParagraph(&body, "Document Information", StyleMap["heading"])
	writeParagraph(&body, "Document Name: "+r.FileName, StyleMap["body"])
	writeParagraph(&body, "Analysis Date: "+r.GeneratedAt.Format(timestampLayout), StyleMap["meta"])
	writeParagraph(&body, "Document ID: "+r.DocumentID, StyleMap["meta"])

	if include(r.Sections.Summary) {
		writeParagraph(&body, "Executive Summary", StyleMap["heading"])
		writeLines(&body, orDefault(r.Summary, "No summary available"), func(string) RunStyle { return StyleMap["body"] })
	}

	if include(r.Sections.Clauses) {
		writeParagraph(&body, "Key Clauses Analysis", StyleMap["heading"])
		for i, c := range r.KeyClauses {
			writeParagraph(&body, fmt.Sprintf("%d. %s", i+1, orDefault(c.Reference, "N/A")), StyleMap["clause"])
			writeParagraph(&body, "Explanation: "+orDefault(c.Explanation, "N/A"), StyleMap["body"])
			writeParagraph(&body, "Legal Implications: "+orDefault(c.Implications, "N/A"), StyleMap["body"])
			writeParagraph(&body, "Business Impact: "+orDefault(c.Impact, "N/A"), StyleMap["body"])
			writeParagraph(&body, "Potential Concerns: "+orDefault(c.Concerns, "N/A"), StyleMap["body"])
		}
	}

	if include(r.Sections.Risks) {
		writeParagraph(&body, "Risk Assessment", StyleMap["heading"])
		writeLines(&body, orDefault(r.RiskAssessment, "No risk assessment available"), riskStyle)
	}

	if include(r.Sections.QA) && len(r.QA) > 0 {
		writeParagraph(&body, "Q&A History", StyleMap["heading"])
		for _, m := range r.QA {
			writeParagraph(&body, "Question: "+m.Question, StyleMap["clause"])
			writeLines(&body, "Answer: "+CleanMarkdown(m.Answer), func(string) RunStyle { return StyleMap["body"] })
			writeParagraph(&body, m.Timestamp.UTC().Format(time.RFC3339), StyleMap["meta"])
		}
	}
	body.WriteString(documentClose)

	var output bytes.Buffer
	writer := zip.NewWriter(&output)
	parts := []struct {
		name    string
		content []byte
	}{
		{name: "[Content_Types].xml", content: []byte(contentTypesXML)},
		{name: "_rels/.rels", content: []byte(rootRelsXML)},
		{name: "word/document.xml", content: body.Bytes()},
	}
	for _, part := range parts {
		if err := writeZipEntry(writer, part.name, part.content); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}

func writeZipEntry(writer *zip.Writer, name string, content []byte) error {
	dst, err := writer.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := dst.Write(content); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func writeLines(buf *bytes.Buffer, text string, style func(line string) RunStyle) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		writeParagraph(buf, line, style(line))
	}
}

func writeParagraph(buf *bytes.Buffer, text string, style RunStyle) {
	buf.WriteString("<w:p><w:r>")
	if props := runProperties(style); props != "" {
		buf.WriteString("<w:rPr>")
		buf.WriteString(props)
		buf.WriteString("</w:rPr>")
	}
	buf.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(buf, []byte(text))
	buf.WriteString("</w:t></w:r></w:p>")
}

func runProperties(style RunStyle) string {
	var b strings.Builder
	if style.Bold {
		b.WriteString("<w:b/>")
	}
	if style.Italic {
		b.WriteString("<w:i/>")
	}
	if style.Color != "" {
		fmt.Fprintf(&b, `<w:color w:val="%s"/>`, style.Color)
	}
	if style.Size > 0 {
		fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, style.Size)
	}
	return b.String()
}
