package chat

import (
	"fmt"

	"github.com/yanqian/bible-chat/internal/domain/screening"
	"github.com/yanqian/bible-chat/pkg/metrics"
)

// Error codes surfaced to the transport layer.
const (
	CodeConfiguration = "configuration_error"
	CodeInvalidInput  = "invalid_input"
	CodeSession       = "session_error"
	CodeStats         = "stats_error"
)

// Outcome is the terminal state of a chat request.
type Outcome string

const (
	// OutcomeAnswered means the completion service produced the answer.
	OutcomeAnswered Outcome = "answered"
	// OutcomeDegraded means the completion service failed and a canned answer was served.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeDeclined means the question was off topic.
	OutcomeDeclined Outcome = "declined"
	// OutcomeRejected means the input failed validation.
	OutcomeRejected Outcome = "rejected"
	// OutcomeEmergency means a crisis phrase was detected.
	OutcomeEmergency Outcome = "emergency"
)

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request is the inbound chat payload.
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// Response is returned for every request that ends in a 2xx.
type Response struct {
	Answer     string              `json:"response"`
	Outcome    Outcome             `json:"outcome"`
	SessionID  string              `json:"sessionId,omitempty"`
	TokenUsage *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// Turn is a single conversation entry.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Diagnostics backs the debug endpoint. It never carries the credential itself.
type Diagnostics struct {
	HasAPIKey    bool    `json:"hasApiKey"`
	APIKeyLength int     `json:"apiKeyLength"`
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	MaxTokens    int     `json:"maxTokens"`
	Temperature  float32 `json:"temperature"`
}

// OutcomeCount aggregates outcomes per day.
type OutcomeCount struct {
	Day     string  `json:"day"`
	Outcome Outcome `json:"outcome"`
	Count   int64   `json:"count"`
}

// CompletionRequest is what the service sends to the completion service.
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []Turn
	MaxTokens   int
	Temperature float32
}

// CompletionResult is a successful completion.
type CompletionResult struct {
	Text  string
	Usage metrics.TokenUsage
}

// ValidationError carries the screening reason behind an invalid_input error.
type ValidationError struct {
	Reason screening.Reason
}

func (e *ValidationError) Error() string {
	return string(e.Reason)
}

// UpstreamError describes a failed completion call.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Err != nil:
		return fmt.Sprintf("upstream status=%d body=%s: %v", e.StatusCode, e.Body, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("upstream status=%d body=%s", e.StatusCode, e.Body)
	case e.Err != nil:
		return "upstream: " + e.Err.Error()
	default:
		return "upstream failure"
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
