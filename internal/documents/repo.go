package documents

import "context"

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	List(ctx context.Context, limit, offset int) ([]Document, error)
	Delete(ctx context.Context, documentID string) error
	// UpdateStatus sets the status and clears any stored analysis.
	UpdateStatus(ctx context.Context, documentID, status string) error
	// UpdateAnalysis stores the analysis and marks the document completed.
	UpdateAnalysis(ctx context.Context, documentID string, analysis Analysis) error
}
