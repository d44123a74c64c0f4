package s3

import (
	"io"
	"strings"
	"testing"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "documents/lease.pdf", want: "documents/lease.pdf"},
		{name: "simple prefix", prefix: "legal", key: "documents/lease.pdf", want: "legal/documents/lease.pdf"},
		{name: "prefix and key slashes", prefix: "/legal/", key: "/documents/lease.pdf", want: "legal/documents/lease.pdf"},
		{name: "empty key", prefix: "legal", key: "", want: "legal"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestCountingReader(t *testing.T) {
	c := &countingReader{r: strings.NewReader("twelve bytes")}
	if _, err := io.Copy(io.Discard, c); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if c.n != 12 {
		t.Fatalf("expected 12 bytes counted, got %d", c.n)
	}
}
