package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, file_name, file_path, mime_type, size_bytes, checksum, upload_date, analysis_status, summary, key_clauses, risk_assessment`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    file_name,
    file_path,
    mime_type,
    size_bytes,
    checksum,
    upload_date,
    analysis_status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	status := doc.AnalysisStatus
	if status == "" {
		status = StatusPending
	}
	var checksum sql.NullString
	if doc.Checksum != "" {
		checksum = sql.NullString{String: doc.Checksum, Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.FileName,
		doc.FilePath,
		doc.MimeType,
		doc.SizeBytes,
		checksum,
		doc.UploadedAt,
		status,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	query := `SELECT ` + selectColumns + ` FROM documents WHERE id = $1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List lists documents ordered newest-first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + selectColumns + ` FROM documents ORDER BY upload_date DESC, id LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Delete removes a document row. Chat messages cascade.
func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, documentID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// UpdateStatus sets the status and clears any stored analysis.
func (r *PGRepo) UpdateStatus(ctx context.Context, documentID, status string) error {
	const query = `
UPDATE documents
SET analysis_status = $1, summary = NULL, key_clauses = NULL, risk_assessment = NULL, updated_at = NOW()
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, status, documentID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// UpdateAnalysis writes the analysis triple and the completed status in one statement.
func (r *PGRepo) UpdateAnalysis(ctx context.Context, documentID string, analysis Analysis) error {
	clauses := analysis.KeyClauses
	if clauses == nil {
		clauses = []ClauseRecord{}
	}
	clausesJSON, err := json.Marshal(clauses)
	if err != nil {
		return fmt.Errorf("marshal key clauses: %w", err)
	}

	const query = `
UPDATE documents
SET analysis_status = $1, summary = $2, key_clauses = $3, risk_assessment = $4, updated_at = NOW()
WHERE id = $5`
	res, err := r.DB.ExecContext(ctx, query, StatusCompleted, analysis.Summary, clausesJSON, analysis.RiskAssessment, documentID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var checksum sql.NullString
	var summary sql.NullString
	var clausesRaw []byte
	var risk sql.NullString
	if err := row.Scan(
		&doc.ID,
		&doc.FileName,
		&doc.FilePath,
		&doc.MimeType,
		&doc.SizeBytes,
		&checksum,
		&doc.UploadedAt,
		&doc.AnalysisStatus,
		&summary,
		&clausesRaw,
		&risk,
	); err != nil {
		return Document{}, err
	}
	if checksum.Valid {
		doc.Checksum = checksum.String
	}
	if summary.Valid {
		doc.Summary = &summary.String
	}
	if risk.Valid {
		doc.RiskAssessment = &risk.String
	}
	if len(clausesRaw) > 0 {
		if err := json.Unmarshal(clausesRaw, &doc.KeyClauses); err != nil {
			return Document{}, fmt.Errorf("decode key clauses for %s: %w", doc.ID, err)
		}
	}
	return doc, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
