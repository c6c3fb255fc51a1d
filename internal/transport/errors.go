package transport

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError describes a non-success response from the API. The message is
// taken from the response body's "error" field when present, with the raw
// body as fallback.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "api error %d: %s", e.StatusCode, e.Message)
	if e.RequestID != "" {
		fmt.Fprintf(&sb, " (X-Request-Id: %s)", e.RequestID)
	}
	return sb.String()
}

// errorEnvelope matches both error body shapes returned by the API:
// {"error": "..."} and {"error": {"code": ..., "message": "..."}}.
type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(status int, body []byte, requestID string) *APIError {
	return &APIError{
		StatusCode: status,
		Message:    errorMessage(body),
		RequestID:  requestID,
	}
}

func errorMessage(body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Error) > 0 {
		var detail errorDetail
		if err := json.Unmarshal(envelope.Error, &detail); err == nil && detail.Message != "" {
			return detail.Message
		}
		var message string
		if err := json.Unmarshal(envelope.Error, &message); err == nil && message != "" {
			return message
		}
	}
	return strings.TrimSpace(string(body))
}
