package chat

import (
	"context"
	"time"
)

// CompletionClient calls the hosted language model.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// SessionStore persists conversation history per session.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) ([]Turn, bool, error)
	Save(ctx context.Context, sessionID string, turns []Turn, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// StatsRepository counts request outcomes per day.
type StatsRepository interface {
	Record(ctx context.Context, outcome Outcome, at time.Time) error
	Summary(ctx context.Context, since time.Time) ([]OutcomeCount, error)
}

// TokenCounter estimates prompt tokens for the history budget.
type TokenCounter interface {
	Count(text string) int
}
