package extract

import (
	"context"
	"errors"
)

// ErrOCRUnavailable is returned by OCR backends that cannot process documents.
var ErrOCRUnavailable = errors.New("ocr unavailable")

// OCR recovers text from image-based documents stored at path.
type OCR interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// PlaceholderOCR is used when no OCR backend is configured.
type PlaceholderOCR struct{}

// ExtractText always reports ErrOCRUnavailable.
func (PlaceholderOCR) ExtractText(context.Context, string) (string, error) {
	return "", ErrOCRUnavailable
}
