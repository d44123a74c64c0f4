package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"legal-docs-backend/internal/shared/storage/object"
	"legal-docs-backend/internal/shared/telemetry"
	"legal-docs-backend/internal/shared/util"
)

const (
	MimePDF  = "application/pdf"
	MimeText = "text/plain"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	storageNamespace = "documents"
)

var allowedTypes = map[string]struct{}{
	MimePDF:  {},
	MimeText: {},
	MimeDOC:  {},
	MimeDOCX: {},
}

var extensionTypes = map[string]string{
	".pdf":  MimePDF,
	".txt":  MimeText,
	".doc":  MimeDOC,
	".docx": MimeDOCX,
}

// ChatPurger removes chat history tied to a document.
type ChatPurger interface {
	DeleteByDocument(ctx context.Context, documentID string) error
}

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	Chats ChatPurger
	// MaxBytes caps the stored upload size. Zero means unlimited.
	MaxBytes int64
	Now      func() time.Time
}

// Upload validates the media type, stores the bytes and records a pending document.
func (s *Service) Upload(ctx context.Context, fileName, declaredType string, r io.Reader) (Document, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return Document{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	mediaType := ResolveMediaType(declaredType, fileName)
	if _, ok := allowedTypes[mediaType]; !ok {
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
	}

	reader := r
	if s.MaxBytes > 0 {
		reader = io.LimitReader(r, s.MaxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if s.MaxBytes > 0 && int64(len(data)) > s.MaxBytes {
		return Document{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.MaxBytes)
	}

	storageKey, size, _, err := s.Store.Save(ctx, storageNamespace, fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("store upload: %w", err)
	}

	doc := Document{
		ID:             uuid.NewString(),
		FileName:       fileName,
		FilePath:       storageKey,
		MimeType:       mediaType,
		SizeBytes:      size,
		Checksum:       util.Checksum(data),
		UploadedAt:     s.now(),
		AnalysisStatus: StatusPending,
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		if delErr := s.Store.Delete(context.Background(), storageKey); delErr != nil {
			telemetry.Warn("document.orphan_blob", map[string]any{"storage_key": storageKey, "error": delErr})
		}
		return Document{}, fmt.Errorf("create document: %w", err)
	}

	telemetry.Info("document.uploaded", map[string]any{
		"document_id": doc.ID,
		"mime_type":   doc.MimeType,
		"size_bytes":  doc.SizeBytes,
	})
	return doc, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, documentID string) (Document, error) {
	if strings.TrimSpace(documentID) == "" {
		return Document{}, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, documentID)
}

// List returns documents newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Document, error) {
	return s.Repo.List(ctx, limit, offset)
}

// Delete removes the stored bytes, the chat history and then the record.
// A missing blob does not block removal of the record.
func (s *Service) Delete(ctx context.Context, documentID string) error {
	doc, err := s.Get(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.Store.Delete(ctx, doc.FilePath); err != nil && !errors.Is(err, object.ErrNotFound) {
		telemetry.Warn("document.blob_delete_failed", map[string]any{
			"document_id": doc.ID,
			"storage_key": doc.FilePath,
			"error":       err,
		})
	}
	if s.Chats != nil {
		if err := s.Chats.DeleteByDocument(ctx, doc.ID); err != nil {
			return fmt.Errorf("delete chat history: %w", err)
		}
	}
	if err := s.Repo.Delete(ctx, doc.ID); err != nil {
		return err
	}

	telemetry.Info("document.deleted", map[string]any{"document_id": doc.ID})
	return nil
}

// ResolveMediaType normalises a declared content type, falling back to the
// file extension when the client sent nothing useful.
func ResolveMediaType(declared, fileName string) string {
	mediaType := strings.ToLower(strings.TrimSpace(declared))
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}
	if mediaType == "" || mediaType == "application/octet-stream" || mediaType == "application/zip" {
		if byExt, ok := extensionTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
			return byExt
		}
	}
	return mediaType
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
