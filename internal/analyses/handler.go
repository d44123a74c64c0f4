package analyses

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"legal-docs-backend/internal/documents"
	"legal-docs-backend/internal/llm"
	"legal-docs-backend/internal/reports"
	"legal-docs-backend/internal/shared/server/middleware"
	"legal-docs-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
	Now func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis, question and export routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/analyze", h.analyze)
	rg.POST("/documents/ask", h.ask)
	rg.GET("/documents/:id/chat", h.chatHistory)
	rg.POST("/documents/:id/export", h.export)
}

type askRequest struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
	SessionID  string `json:"session_id"`
}

type exportRequest struct {
	Format   string           `json:"format"`
	Sections reports.Sections `json:"sections"`
}

func (h *Handler) analyze(c *gin.Context) {
	documentID := c.Param("id")
	c.Set("documentId", documentID)
	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))

	result, err := h.Svc.Analyze(ctx, documentID)
	if err != nil {
		writePipelineError(c, err, "Document analysis failed")
		return
	}
	respond.OK(c, result)
}

func (h *Handler) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.DocumentID) == "" || strings.TrimSpace(req.Question) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "document_id and question are required", []map[string]string{
			{"field": "document_id", "issue": "required"},
			{"field": "question", "issue": "required"},
		})
		return
	}
	c.Set("documentId", req.DocumentID)
	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))

	answer, err := h.Svc.Ask(ctx, AskInput{
		DocumentID: req.DocumentID,
		Question:   req.Question,
		SessionID:  req.SessionID,
	})
	if err != nil {
		writePipelineError(c, err, "Question processing failed")
		return
	}
	c.Set("sessionId", answer.SessionID)
	respond.OK(c, answer)
}

func (h *Handler) chatHistory(c *gin.Context) {
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	msgs, err := h.Svc.History(c.Request.Context(), documentID, c.Query("session_id"))
	if err != nil {
		writePipelineError(c, err, "failed to load chat history")
		return
	}
	respond.OK(c, msgs)
}

func (h *Handler) export(c *gin.Context) {
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	var req exportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	doc, err := h.Svc.Document(c.Request.Context(), documentID)
	if err != nil {
		writePipelineError(c, err, "Export failed")
		return
	}
	if doc.AnalysisStatus != documents.StatusCompleted {
		respond.Error(c, http.StatusBadRequest, "analysis_not_completed", "Document analysis not completed", nil)
		return
	}
	history, err := h.Svc.History(c.Request.Context(), documentID, "")
	if err != nil {
		writePipelineError(c, err, "Export failed")
		return
	}

	report := reports.NewReport(doc, history, req.Sections, h.now())
	data, contentType, fileName, err := reports.Render(report, req.Format)
	if err != nil {
		if errors.Is(err, reports.ErrUnsupportedFormat) {
			respond.Error(c, http.StatusBadRequest, "unsupported_format", "Unsupported export format", []map[string]string{
				{"field": "format", "issue": "must be text or word"},
			})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Export failed", nil)
		return
	}
	respond.Attachment(c, fileName, contentType, data)
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// writePipelineError maps service errors to HTTP responses. Model failures
// keep their kind so clients can tell an outage from a bad reply.
func writePipelineError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, llm.ErrServiceUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "model_unavailable", fallback+": "+err.Error(), nil)
	case errors.Is(err, llm.ErrTimeout):
		respond.Error(c, http.StatusGatewayTimeout, "model_timeout", fallback+": "+err.Error(), nil)
	case errors.Is(err, ErrAnalysisFailed), errors.Is(err, ErrQuestionFailed):
		respond.Error(c, http.StatusBadGateway, "analysis_failed", fallback+": "+err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
