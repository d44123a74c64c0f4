package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"

	"legal-docs-backend/internal/bootstrap"
	"legal-docs-backend/internal/shared/config"
)

func newTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:3000"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
		OCRProvider:     "none",
		MaxUploadSizeMB: 1,
	}

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func uploadRequest(t *testing.T, fileName, contentType string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create form part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestDocumentsUploadGetListDelete(t *testing.T) {
	app := newTestApp(t)
	router := app.Router

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "lease.txt", "text/plain", []byte("The Tenant shall pay rent monthly.")))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d body=%s", resp.Code, resp.Body.String())
	}

	var created struct {
		DocumentID     string `json:"documentId"`
		FileName       string `json:"fileName"`
		MimeType       string `json:"mimeType"`
		AnalysisStatus string `json:"analysisStatus"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.DocumentID == "" || created.FileName != "lease.txt" {
		t.Fatalf("unexpected upload response %+v", created)
	}
	if created.AnalysisStatus != "pending" || created.MimeType != "text/plain" {
		t.Fatalf("expected pending text/plain document, got %+v", created)
	}

	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, httptest.NewRequest(http.MethodGet, "/api/documents/"+created.DocumentID, nil))
	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}
	if bytes.Contains(respGet.Body.Bytes(), []byte(`"summary"`)) {
		t.Fatalf("pending document must not expose analysis fields: %s", respGet.Body.String())
	}

	respList := httptest.NewRecorder()
	router.ServeHTTP(respList, httptest.NewRequest(http.MethodGet, "/api/documents?limit=10", nil))
	if respList.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respList.Code)
	}
	var listed []struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(respList.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed) != 1 || listed[0].DocumentID != created.DocumentID {
		t.Fatalf("unexpected list %+v", listed)
	}

	respDel := httptest.NewRecorder()
	router.ServeHTTP(respDel, httptest.NewRequest(http.MethodDelete, "/api/documents/"+created.DocumentID, nil))
	if respDel.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respDel.Code)
	}

	respGone := httptest.NewRecorder()
	router.ServeHTTP(respGone, httptest.NewRequest(http.MethodGet, "/api/documents/"+created.DocumentID, nil))
	if respGone.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", respGone.Code)
	}
}

func TestDocumentsUploadRejections(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		data        []byte
		wantCode    string
	}{
		{name: "unsupported type", fileName: "photo.png", contentType: "image/png", data: []byte("png"), wantCode: "unsupported_file_type"},
		{name: "over size limit", fileName: "big.txt", contentType: "text/plain", data: bytes.Repeat([]byte("a"), (1<<20)+10), wantCode: "validation_error"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			resp := httptest.NewRecorder()
			app.Router.ServeHTTP(resp, uploadRequest(t, tt.fileName, tt.contentType, tt.data))
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d body=%s", resp.Code, resp.Body.String())
			}
			var env struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if env.Error.Code != tt.wantCode {
				t.Fatalf("expected code %q, got %q", tt.wantCode, env.Error.Code)
			}
		})
	}
}

func TestDocumentsUploadRequiresFile(t *testing.T) {
	app := newTestApp(t)
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
