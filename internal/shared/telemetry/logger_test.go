package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = orig
	}()

	fn()

	_ = w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read output: %v", err)
	}
	return buf.String()
}

func TestInfoWritesStructuredJSON(t *testing.T) {
	out := captureStdout(t, func() {
		Info("analysis.status", map[string]any{
			"document_id": "doc-1",
			"status":      "processing",
		})
	})

	line := strings.TrimSpace(out)
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	if payload["msg"] != "analysis.status" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if payload["document_id"] != "doc-1" {
		t.Fatalf("unexpected document_id: %v", payload["document_id"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts field")
	}
}

func TestErrorFieldsRenderAsStrings(t *testing.T) {
	out := captureStdout(t, func() {
		Error("model.call_failed", map[string]any{"error": errors.New("boom")})
	})

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["error"] != "boom" {
		t.Fatalf("expected error string, got %v", payload["error"])
	}
}

func TestInitRespectsLevel(t *testing.T) {
	Init(Options{Level: "error"})
	defer Init(Options{})

	out := captureStdout(t, func() {
		Info("quiet", nil)
		Warn("also quiet", nil)
	})
	if strings.TrimSpace(out) != "" {
		t.Fatalf("expected no output below error level, got %q", out)
	}
}
