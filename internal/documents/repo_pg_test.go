package documents

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateDefaultsToPending(t *testing.T) {
	repo, mock := newMockRepo(t)
	doc := Document{
		ID:         "doc-1",
		FileName:   "nda.pdf",
		FilePath:   "documents/abc_nda.pdf",
		MimeType:   MimePDF,
		SizeBytes:  2048,
		Checksum:   "deadbeef",
		UploadedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(doc.ID, doc.FileName, doc.FilePath, doc.MimeType, doc.SizeBytes, sqlmock.AnyArg(), doc.UploadedAt, StatusPending).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDDecodesClauses(t *testing.T) {
	repo, mock := newMockRepo(t)
	uploaded := time.Date(2026, time.February, 2, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "file_name", "file_path", "mime_type", "size_bytes", "checksum", "upload_date", "analysis_status", "summary", "key_clauses", "risk_assessment"}).
		AddRow("doc-1", "nda.pdf", "documents/abc_nda.pdf", MimePDF, int64(2048), "deadbeef", uploaded, StatusCompleted, "Mutual NDA.",
			[]byte(`[{"clause_number":1,"reference":"Section 1","explanation":"e","implications":"i","impact":"b","concerns":"c"}]`), "Moderate.")

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = \\$1").
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.Summary == nil || *doc.Summary != "Mutual NDA." {
		t.Fatalf("unexpected summary: %v", doc.Summary)
	}
	if len(doc.KeyClauses) != 1 || doc.KeyClauses[0].Reference != "Section 1" {
		t.Fatalf("unexpected clauses: %+v", doc.KeyClauses)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateAnalysisSingleStatement(t *testing.T) {
	repo, mock := newMockRepo(t)
	analysis := Analysis{Summary: "s", RiskAssessment: "r"}

	mock.ExpectExec("UPDATE documents").
		WithArgs(StatusCompleted, "s", []byte("[]"), "r", "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateAnalysis(context.Background(), "doc-1", analysis); err != nil {
		t.Fatalf("UpdateAnalysis: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE documents").
		WithArgs(StatusProcessing, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateStatus(context.Background(), "missing", StatusProcessing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
