package chat

import "time"

// Config holds runtime knobs for the chat service.
type Config struct {
	Provider           string
	Model              string
	MaxTokens          int
	Temperature        float32
	APIKeyLength       int
	UpstreamTimeout    time.Duration
	SystemPrompt       string
	QuestionTemplate   string
	HistoryTurns       int
	HistoryTokenBudget int
	SessionTTL         time.Duration
	MaxAnswerLength    int
	ConfigErrorMessage string
}

// QuestionPlaceholder marks where the sanitized question goes in QuestionTemplate.
const QuestionPlaceholder = "{{question}}"
