package minio

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"

	"legal-docs-backend/internal/shared/storage/object"
)

func TestMapErrorNotFound(t *testing.T) {
	err := mapError("stat", "documents/a.pdf", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})
	if !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMapErrorPassesThroughOtherFailures(t *testing.T) {
	cause := minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}
	err := mapError("get", "documents/a.pdf", cause)
	if errors.Is(err, object.ErrNotFound) {
		t.Fatalf("did not expect ErrNotFound for %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{Endpoint: "localhost:9000"}); err == nil {
		t.Fatalf("expected error without bucket")
	}
}
