package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"legal-docs-backend/internal/shared/metrics"
	"legal-docs-backend/internal/shared/storage/object"
	"legal-docs-backend/internal/shared/telemetry"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// MinUsefulChars is the trimmed length below which extracted text is not analysable.
	MinUsefulChars = 50
)

// Extractor turns stored documents into plain text.
type Extractor struct {
	Store object.ObjectStore
	OCR   OCR

	readPDFPages func(data []byte) ([]string, error)
}

// New constructs an Extractor. A nil ocr falls back to PlaceholderOCR.
func New(store object.ObjectStore, ocr OCR) *Extractor {
	if ocr == nil {
		ocr = PlaceholderOCR{}
	}
	return &Extractor{Store: store, OCR: ocr, readPDFPages: readPDFPages}
}

// Extract reads the document at path and classifies the outcome. It never
// returns an error: failures are reported through Result.Quality.
func (e *Extractor) Extract(ctx context.Context, path, mediaType string) Result {
	res := e.extract(ctx, path, mediaType)
	if res.Degraded() {
		metrics.IncExtractionDegraded()
		telemetry.Warn("extract.degraded", map[string]any{
			"path":       path,
			"media_type": mediaType,
			"quality":    string(res.Quality),
			"reason":     res.Reason,
		})
	}
	return res
}

func (e *Extractor) extract(ctx context.Context, path, mediaType string) Result {
	data, err := object.ReadAll(ctx, e.Store, path)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return notFound(path)
		}
		return readFailed(err)
	}

	lowerPath := strings.ToLower(path)
	switch {
	case mediaType == mimePDF || strings.HasSuffix(lowerPath, ".pdf"):
		return e.extractPDF(ctx, path, data)
	case mediaType == mimeDOCX || strings.HasSuffix(lowerPath, ".docx"):
		text, err := extractDOCX(data)
		if err != nil {
			return undecodable(mediaType)
		}
		return checkLength(text)
	default:
		text, ok := decodeText(data)
		if !ok {
			return undecodable(mediaType)
		}
		return checkLength(text)
	}
}

func (e *Extractor) extractPDF(ctx context.Context, path string, data []byte) Result {
	pages, err := e.pdfPages(data)
	if err != nil {
		return pdfFailed(err)
	}
	nonEmpty := make([]string, 0, len(pages))
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	text := strings.Join(nonEmpty, "\n")
	direct := len(strings.TrimSpace(text))
	if direct >= MinUsefulChars {
		return Result{Text: text, Quality: QualitySufficient}
	}

	ocrText, err := e.ocr().ExtractText(ctx, path)
	if err != nil {
		telemetry.Info("extract.ocr_unavailable", map[string]any{"path": path, "error": err})
		ocrText = ""
	}
	if recovered := len(strings.TrimSpace(ocrText)); recovered > direct {
		quality := QualitySufficient
		if recovered < MinUsefulChars {
			quality = QualityInsufficient
		}
		return Result{Text: ocrText, Quality: quality}
	}
	return scannedPDF(len(text))
}

func (e *Extractor) pdfPages(data []byte) ([]string, error) {
	if e.readPDFPages != nil {
		return e.readPDFPages(data)
	}
	return readPDFPages(data)
}

func (e *Extractor) ocr() OCR {
	if e.OCR == nil {
		return PlaceholderOCR{}
	}
	return e.OCR
}

// readPDFPages returns the plain text of each page in order. Panics from the
// PDF library on malformed input are converted to errors.
func readPDFPages(data []byte) (pages []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func checkLength(text string) Result {
	if len(strings.TrimSpace(text)) < MinUsefulChars {
		return tooShort(len(text))
	}
	return Result{Text: text, Quality: QualitySufficient}
}

// decodeText accepts UTF-8 directly and otherwise makes one more attempt that
// honours a UTF-8 or UTF-16 byte-order mark.
func decodeText(data []byte) (string, bool) {
	if utf8.Valid(data) {
		return strings.TrimPrefix(string(data), "\uFEFF"), true
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), data)
	if err != nil || !utf8.Valid(decoded) {
		return "", false
	}
	return string(decoded), true
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("word/document.xml not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return stripDocxXML(raw)
}

func stripDocxXML(raw []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteByte('\t')
			}
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
