package object

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"legal-docs-backend/internal/shared/util"
)

// NewKey builds a unique slash-separated storage key of the form
// <namespace>/<random>_<sanitized file name>.
func NewKey(namespace, fileName string) (string, error) {
	sanitizedName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	ns := strings.Trim(strings.TrimSpace(namespace), "/")
	if strings.Contains(ns, "..") {
		return "", fmt.Errorf("invalid namespace %q", namespace)
	}
	name := fmt.Sprintf("%s_%s", randomID(), sanitizedName)
	if ns == "" {
		return name, nil
	}
	return path.Join(ns, name), nil
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
