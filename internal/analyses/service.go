package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"legal-docs-backend/internal/chats"
	"legal-docs-backend/internal/documents"
	"legal-docs-backend/internal/extract"
	"legal-docs-backend/internal/llm"
	"legal-docs-backend/internal/shared/metrics"
	"legal-docs-backend/internal/shared/telemetry"
)

// MinResponseChars is the trimmed length below which a model reply is rejected.
const MinResponseChars = 100

// TextExtractor turns a stored document into text.
type TextExtractor interface {
	Extract(ctx context.Context, path, mediaType string) extract.Result
}

// Service runs the analysis and question pipelines.
type Service struct {
	Docs      documents.Repo
	Chats     chats.Repo
	Extractor TextExtractor
	LLM       llm.Client
	Now       func() time.Time
	NewID     func() string

	inflight singleflight.Group
}

// Result is a document's structured analysis.
type Result struct {
	DocumentID     string                   `json:"documentId"`
	Status         string                   `json:"status"`
	Summary        string                   `json:"summary"`
	KeyClauses     []documents.ClauseRecord `json:"keyClauses"`
	RiskAssessment string                   `json:"riskAssessment"`
}

// AskInput is a question about one document.
type AskInput struct {
	DocumentID string
	Question   string
	SessionID  string
}

// Answer is the reply to AskInput, as recorded in chat history.
type Answer struct {
	DocumentID string    `json:"documentId"`
	SessionID  string    `json:"sessionId"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Timestamp  time.Time `json:"timestamp"`
}

// Analyze returns the document's analysis, running the pipeline unless a
// completed analysis is already stored. Concurrent calls for one document
// share a single run. Once started, a run always reaches completed or failed:
// cancelling ctx does not abort it.
func (s *Service) Analyze(ctx context.Context, documentID string) (Result, error) {
	if strings.TrimSpace(documentID) == "" {
		return Result{}, ErrInvalidInput
	}
	runCtx := context.WithoutCancel(ctx)
	v, err, _ := s.inflight.Do(documentID, func() (any, error) {
		return s.analyze(runCtx, documentID)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (s *Service) analyze(ctx context.Context, documentID string) (Result, error) {
	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return Result{}, err
	}
	if doc.HasAnalysis() {
		metrics.IncAnalysisCacheHit()
		return storedResult(doc), nil
	}

	from := doc.AnalysisStatus
	if err := s.Docs.UpdateStatus(ctx, doc.ID, documents.StatusProcessing); err != nil {
		return Result{}, fmt.Errorf("set processing document=%s: %w", doc.ID, err)
	}
	startedAt := s.now()
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       doc.ID,
		"status":            documents.StatusProcessing,
		"status_transition": from + "->" + documents.StatusProcessing,
	})

	text := s.Extractor.Extract(ctx, doc.FilePath, doc.MimeType)
	prompt := llm.BuildAnalysisPrompt(text.Text, text.Quality)

	raw, err := s.LLM.Send(ctx, prompt)
	if err != nil {
		return Result{}, s.failAnalysis(ctx, doc.ID, err, startedAt)
	}
	if len(strings.TrimSpace(raw)) < MinResponseChars {
		return Result{}, s.failAnalysis(ctx, doc.ID, ErrResponseTooShort, startedAt)
	}

	parsed := ParseAnalysis(raw)
	if len(parsed.Missing) > 0 {
		telemetry.Warn("analysis.sections_missing", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"document_id": doc.ID,
			"missing":     strings.Join(parsed.Missing, ","),
		})
	}

	analysis := documents.Analysis{
		Summary:        parsed.Summary,
		KeyClauses:     parsed.KeyClauses,
		RiskAssessment: parsed.RiskAssessment,
	}
	if analysis.KeyClauses == nil {
		analysis.KeyClauses = []documents.ClauseRecord{}
	}
	if err := s.Docs.UpdateAnalysis(ctx, doc.ID, analysis); err != nil {
		return Result{}, s.failAnalysis(ctx, doc.ID, fmt.Errorf("store analysis: %w", err), startedAt)
	}

	duration := durationMs(startedAt, s.now())
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(duration)
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       doc.ID,
		"status":            documents.StatusCompleted,
		"status_transition": documents.StatusProcessing + "->" + documents.StatusCompleted,
		"duration_ms":       duration,
		"clauses":           len(analysis.KeyClauses),
		"text_quality":      string(text.Quality),
	})

	return Result{
		DocumentID:     doc.ID,
		Status:         documents.StatusCompleted,
		Summary:        analysis.Summary,
		KeyClauses:     analysis.KeyClauses,
		RiskAssessment: analysis.RiskAssessment,
	}, nil
}

// failAnalysis records the failed status and returns the error for the caller.
func (s *Service) failAnalysis(ctx context.Context, documentID string, cause error, startedAt time.Time) error {
	if err := s.Docs.UpdateStatus(ctx, documentID, documents.StatusFailed); err != nil {
		telemetry.Error("analysis.fail_update_failed", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"document_id": documentID,
			"error":       err,
		})
	}
	duration := durationMs(startedAt, s.now())
	metrics.IncAnalysisFailed()
	metrics.ObserveAnalysisDurationMs(duration)
	telemetry.Warn("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       documentID,
		"status":            documents.StatusFailed,
		"status_transition": documents.StatusProcessing + "->" + documents.StatusFailed,
		"duration_ms":       duration,
		"failure_kind":      string(llm.KindOf(cause)),
		"error":             cause,
	})
	return &FailureError{Op: opAnalyze, DocumentID: documentID, Err: cause}
}

// Ask answers a question about the document and appends the exchange to the
// chat history. Document status is never changed. The question is recorded
// exactly as asked. Like Analyze, a started call is not aborted by ctx.
func (s *Service) Ask(ctx context.Context, in AskInput) (Answer, error) {
	if strings.TrimSpace(in.DocumentID) == "" || strings.TrimSpace(in.Question) == "" {
		return Answer{}, ErrInvalidInput
	}
	ctx = context.WithoutCancel(ctx)
	question := in.Question
	doc, err := s.loadDocument(ctx, in.DocumentID)
	if err != nil {
		return Answer{}, err
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = fmt.Sprintf("qa_%s_%s", doc.ID, s.newID())
	}

	text := s.Extractor.Extract(ctx, doc.FilePath, doc.MimeType)
	prompt := llm.BuildQuestionPrompt(text.Text, text.Quality, doc.MimeType, question)

	reply, err := s.LLM.Send(ctx, prompt)
	if err == nil && len(strings.TrimSpace(reply)) < MinResponseChars {
		err = ErrResponseTooShort
	}
	if err != nil {
		metrics.IncQuestionFailed()
		telemetry.Warn("question.failed", map[string]any{
			"request_id":   requestIDFromContext(ctx),
			"document_id":  doc.ID,
			"session_id":   sessionID,
			"failure_kind": string(llm.KindOf(err)),
			"error":        err,
		})
		return Answer{}, &FailureError{Op: opAsk, DocumentID: doc.ID, Err: err}
	}

	msg := chats.Message{
		ID:         s.newID(),
		DocumentID: doc.ID,
		SessionID:  sessionID,
		Question:   question,
		Answer:     strings.TrimSpace(reply),
		Timestamp:  s.now(),
	}
	if err := s.Chats.Append(ctx, msg); err != nil {
		return Answer{}, fmt.Errorf("append chat message document=%s: %w", doc.ID, err)
	}
	metrics.IncQuestionAnswered()
	telemetry.Info("question.answered", map[string]any{
		"request_id":   requestIDFromContext(ctx),
		"document_id":  doc.ID,
		"session_id":   sessionID,
		"text_quality": string(text.Quality),
	})

	return Answer{
		DocumentID: msg.DocumentID,
		SessionID:  msg.SessionID,
		Question:   msg.Question,
		Answer:     msg.Answer,
		Timestamp:  msg.Timestamp,
	}, nil
}

// History returns the document's chat messages oldest first, optionally
// limited to one session.
func (s *Service) History(ctx context.Context, documentID, sessionID string) ([]chats.Message, error) {
	if _, err := s.loadDocument(ctx, documentID); err != nil {
		return nil, err
	}
	msgs, err := s.Chats.List(ctx, documentID, strings.TrimSpace(sessionID))
	if err != nil {
		return nil, fmt.Errorf("list chat messages document=%s: %w", documentID, err)
	}
	if msgs == nil {
		msgs = []chats.Message{}
	}
	return msgs, nil
}

// Document returns the stored document record.
func (s *Service) Document(ctx context.Context, documentID string) (documents.Document, error) {
	return s.loadDocument(ctx, documentID)
}

func (s *Service) loadDocument(ctx context.Context, documentID string) (documents.Document, error) {
	doc, err := s.Docs.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return documents.Document{}, ErrNotFound
		}
		return documents.Document{}, fmt.Errorf("document lookup id=%s: %w", documentID, err)
	}
	return doc, nil
}

func storedResult(doc documents.Document) Result {
	res := Result{
		DocumentID: doc.ID,
		Status:     doc.AnalysisStatus,
		KeyClauses: doc.KeyClauses,
	}
	if doc.Summary != nil {
		res.Summary = *doc.Summary
	}
	if doc.RiskAssessment != nil {
		res.RiskAssessment = *doc.RiskAssessment
	}
	if res.KeyClauses == nil {
		res.KeyClauses = []documents.ClauseRecord{}
	}
	return res
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func durationMs(startedAt, completedAt time.Time) float64 {
	return float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
}
