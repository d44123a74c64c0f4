package extract

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"legal-docs-backend/internal/shared/storage/object"
)

// TextractAPI is the subset of the Textract client used for OCR.
type TextractAPI interface {
	DetectDocumentText(ctx context.Context, in *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

// TextractOCR sends document bytes to AWS Textract's synchronous text
// detection. Multi-page PDFs only yield their first page.
type TextractOCR struct {
	Client TextractAPI
	Store  object.ObjectStore
}

// NewTextractOCR builds a TextractOCR from the default AWS credential chain.
func NewTextractOCR(ctx context.Context, region string, store object.ObjectStore) (*TextractOCR, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &TextractOCR{Client: textract.NewFromConfig(cfg), Store: store}, nil
}

// ExtractText returns the LINE blocks detected in the stored document.
func (o *TextractOCR) ExtractText(ctx context.Context, path string) (string, error) {
	if o == nil || o.Client == nil || o.Store == nil {
		return "", ErrOCRUnavailable
	}
	data, err := object.ReadAll(ctx, o.Store, path)
	if err != nil {
		return "", err
	}
	out, err := o.Client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: data},
	})
	if err != nil {
		return "", fmt.Errorf("textract detect text: %w", err)
	}

	lines := make([]string, 0, len(out.Blocks))
	for _, block := range out.Blocks {
		if block.BlockType != types.BlockTypeLine || block.Text == nil {
			continue
		}
		lines = append(lines, *block.Text)
	}
	return strings.Join(lines, "\n"), nil
}

var _ OCR = (*TextractOCR)(nil)
