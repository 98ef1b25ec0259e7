package funnel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"signup-funnel-backend/internal/domain"
)

// maxErrorBody bounds how much of a failed response is read for logging.
const maxErrorBody = 4 << 10

// StatusError is returned by HTTPSubmitter for any non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("signup endpoint returned %d", e.StatusCode)
	}
	return fmt.Sprintf("signup endpoint returned %d: %s", e.StatusCode, e.Message)
}

// HTTPSubmitter posts the signup payload as JSON.
type HTTPSubmitter struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSubmitter creates a submitter for endpoint. A nil client uses
// http.DefaultClient; timeouts are the client's business.
func NewHTTPSubmitter(endpoint string, client *http.Client) *HTTPSubmitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSubmitter{endpoint: endpoint, client: client}
}

func (s *HTTPSubmitter) Submit(ctx context.Context, payload *domain.SignupRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("error posting signup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
}

// errorMessage pulls a readable reason out of an error body, if there is one.
func errorMessage(raw []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	if s, ok := envelope.Error.(string); ok && s != "" {
		return s
	}
	return envelope.Message
}
