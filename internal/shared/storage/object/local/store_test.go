package local

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"legal-docs-backend/internal/shared/storage/object"
)

func TestStoreSaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	key, size, mimeType, err := store.Save(ctx, "documents", "lease.txt", strings.NewReader("This lease is made between the parties."))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("This lease is made between the parties.")) {
		t.Fatalf("unexpected size %d", size)
	}
	if !strings.HasPrefix(mimeType, "text/plain") {
		t.Fatalf("expected sniffed text/plain, got %q", mimeType)
	}

	data, err := object.ReadAll(ctx, store, key)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("This lease")) {
		t.Fatalf("unexpected content %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestStoreRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../outside.txt"); err == nil {
		t.Fatalf("expected traversal key to be rejected")
	}
	if err := store.Delete(context.Background(), "/etc/passwd"); err == nil {
		t.Fatalf("expected absolute key to be rejected")
	}
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	store := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, _, err := store.Save(ctx, "documents", "a.txt", strings.NewReader("x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
