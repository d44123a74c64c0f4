package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"legal-docs-backend/internal/llm"
	"legal-docs-backend/internal/shared/metrics"
	"legal-docs-backend/internal/shared/telemetry"
)

const (
	DefaultEndpoint    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel       = "gemini-2.0-flash"
	DefaultMaxAttempts = 3
	DefaultTimeout     = 60 * time.Second
	DefaultBaseDelay   = time.Second

	maxErrorBodyBytes = 2048
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Config configures the Gemini client. Zero values fall back to the defaults.
type Config struct {
	APIKey      string
	Endpoint    string
	Model       string
	MaxAttempts int
	Timeout     time.Duration
	BaseDelay   time.Duration
}

// Client implements llm.Client against the Gemini generateContent API.
type Client struct {
	apiKey      string
	url         string
	maxAttempts int
	timeout     time.Duration
	baseDelay   time.Duration
	httpClient  *http.Client
	sleep       Sleeper
}

// NewClient constructs a Gemini client. An empty API key is allowed; every
// Send then fails with llm.ErrServiceUnavailable.
func NewClient(cfg Config) *Client {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	c := &Client{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		url:         fmt.Sprintf("%s/models/%s:generateContent", endpoint, model),
		maxAttempts: cfg.MaxAttempts,
		timeout:     cfg.Timeout,
		baseDelay:   cfg.BaseDelay,
		httpClient:  &http.Client{},
		sleep:       sleepContext,
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = DefaultMaxAttempts
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.baseDelay <= 0 {
		c.baseDelay = DefaultBaseDelay
	}
	return c
}

// WithHTTPClient overrides the HTTP client used for requests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithSleeper overrides how the client waits between attempts.
func (c *Client) WithSleeper(s Sleeper) *Client {
	if s != nil {
		c.sleep = s
	}
	return c
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}

// attemptOutcome is the result of one HTTP round trip.
type attemptOutcome struct {
	text      string
	kind      llm.Kind
	status    int
	err       error
	retryable bool
}

// Send posts prompt to the model and returns the first candidate's text.
// Failures are reported as *llm.Error.
func (c *Client) Send(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", &llm.Error{Kind: llm.KindServiceUnavailable, Err: errors.New("gemini api key is not configured")}
	}

	payload, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", &llm.Error{Kind: llm.KindServiceError, Err: err}
	}

	var last attemptOutcome
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		metrics.IncModelAttempt()
		last = c.attempt(ctx, payload)
		if last.kind == "" {
			return last.text, nil
		}
		if !last.retryable || ctx.Err() != nil {
			return "", &llm.Error{Kind: last.kind, StatusCode: last.status, Attempts: attempt + 1, Err: last.err}
		}
		if attempt == c.maxAttempts-1 {
			break
		}

		delay := c.backoff(attempt)
		metrics.IncModelRetry()
		telemetry.Warn("model.retry", map[string]any{
			"attempt":  attempt + 1,
			"kind":     string(last.kind),
			"status":   last.status,
			"delay_ms": delay.Milliseconds(),
			"error":    last.err,
		})
		if err := c.sleep(ctx, delay); err != nil {
			return "", &llm.Error{Kind: last.kind, StatusCode: last.status, Attempts: attempt + 1, Err: err}
		}
	}

	telemetry.Error("model.failed", map[string]any{
		"attempts": c.maxAttempts,
		"kind":     string(last.kind),
		"status":   last.status,
		"error":    last.err,
	})
	return "", &llm.Error{Kind: last.kind, StatusCode: last.status, Attempts: c.maxAttempts, Err: last.err}
}

// backoff returns the wait after the zero-based attempt that just failed.
func (c *Client) backoff(attempt int) time.Duration {
	return c.baseDelay * time.Duration(1<<attempt)
}

func (c *Client) attempt(ctx context.Context, payload []byte) attemptOutcome {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return attemptOutcome{kind: llm.KindServiceError, err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return attemptOutcome{kind: llm.KindTimeout, err: err, retryable: true}
		}
		return attemptOutcome{kind: llm.KindServiceError, err: err, retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		statusErr := fmt.Errorf("gemini http status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		if isRetryableStatus(resp.StatusCode) {
			return attemptOutcome{kind: llm.KindServiceUnavailable, status: resp.StatusCode, err: statusErr, retryable: true}
		}
		return attemptOutcome{kind: llm.KindServiceError, status: resp.StatusCode, err: statusErr}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return attemptOutcome{kind: llm.KindTimeout, err: err, retryable: true}
		}
		return attemptOutcome{kind: llm.KindServiceError, err: err, retryable: true}
	}
	text, err := firstCandidateText(body)
	if err != nil {
		return attemptOutcome{kind: llm.KindServiceError, status: resp.StatusCode, err: err, retryable: true}
	}
	return attemptOutcome{text: text}
}

func firstCandidateText(body []byte) (string, error) {
	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("gemini response parse: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return "", errors.New("gemini response missing candidates")
	}
	first := parsed.Candidates[0].Content
	if first == nil || len(first.Parts) == 0 {
		return "", errors.New("gemini response missing content parts")
	}
	return first.Parts[0].Text, nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ llm.Client = (*Client)(nil)
