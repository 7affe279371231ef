package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yanqian/bible-chat/internal/domain/fallback"
	"github.com/yanqian/bible-chat/internal/domain/screening"
	apperrors "github.com/yanqian/bible-chat/pkg/errors"
	"github.com/yanqian/bible-chat/pkg/metrics"
	"github.com/yanqian/bible-chat/pkg/util"
)

const (
	defaultStatsDays = 7
	maxStatsDays     = 90
)

// Service exposes the chat capabilities.
type Service interface {
	Ask(ctx context.Context, req Request) (Response, error)
	Status() Diagnostics
	ClearSession(ctx context.Context, sessionID string) error
	Stats(ctx context.Context, days int) ([]OutcomeCount, error)
}

type service struct {
	cfg      Config
	filter   *screening.Filter
	fallback *fallback.Selector
	client   CompletionClient
	sessions SessionStore
	stats    StatsRepository
	tokens   TokenCounter
	logger   *slog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewService wires up the chat domain.
func NewService(cfg Config, filter *screening.Filter, selector *fallback.Selector, client CompletionClient, sessions SessionStore, stats StatsRepository, tokens TokenCounter, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		filter:   filter,
		fallback: selector,
		client:   client,
		sessions: sessions,
		stats:    stats,
		tokens:   tokens,
		logger:   logger.With("component", "chat.service"),
		tracer:   otel.Tracer("github.com/yanqian/bible-chat/internal/domain/chat"),
		now:      util.NowUTC,
	}
}

func (s *service) Ask(ctx context.Context, req Request) (Response, error) {
	message := req.Message
	sessionID, sessionErr := s.resolveSession(req.SessionID)

	if emergency := s.filter.DetectEmergency(message); emergency.IsEmergency {
		s.logger.Warn("emergency phrase detected, returning crisis guidance")
		s.record(ctx, OutcomeEmergency)
		return Response{Answer: emergency.Message, Outcome: OutcomeEmergency, SessionID: sessionID}, nil
	}

	if s.cfg.APIKeyLength == 0 {
		s.logger.Error("completion api key is not configured")
		return Response{}, apperrors.Wrap(CodeConfiguration, s.configErrorMessage(), nil)
	}
	if strings.TrimSpace(message) == "" {
		return Response{}, s.invalid(screening.ReasonMessageRequired, s.filter.Message(screening.ReasonMessageRequired))
	}

	result := s.filter.Validate(message)
	if !result.Valid {
		if result.Reason == screening.ReasonOffTopic {
			s.record(ctx, OutcomeDeclined)
			return Response{Answer: result.Message, Outcome: OutcomeDeclined, SessionID: sessionID}, nil
		}
		s.record(ctx, OutcomeRejected)
		return Response{}, s.invalid(result.Reason, result.Message)
	}
	if sessionErr != nil {
		return Response{}, apperrors.Wrap(CodeInvalidInput, "올바르지 않은 세션 ID입니다.", sessionErr)
	}

	history := s.loadHistory(ctx, sessionID)
	complexity := screening.AnalyzeComplexity(message)
	s.logger.Debug("question accepted", "complexity", complexity.Level, "words", complexity.WordCount, "history_turns", history.Len())

	completion, err := s.complete(ctx, history, screening.Sanitize(message), complexity)
	if err != nil {
		s.logUpstreamFailure(err)
		s.record(ctx, OutcomeDegraded)
		return Response{Answer: s.fallback.Select(message), Outcome: OutcomeDegraded, SessionID: sessionID}, nil
	}

	answer := formatAnswer(completion.Text, s.cfg.MaxAnswerLength)
	history.Append(RoleUser, message)
	history.Append(RoleAssistant, answer)
	s.saveHistory(ctx, sessionID, history)
	s.record(ctx, OutcomeAnswered)

	return Response{
		Answer:     answer,
		Outcome:    OutcomeAnswered,
		SessionID:  sessionID,
		TokenUsage: usageOrNil(completion.Usage),
	}, nil
}

func (s *service) Status() Diagnostics {
	return Diagnostics{
		HasAPIKey:    s.cfg.APIKeyLength > 0,
		APIKeyLength: s.cfg.APIKeyLength,
		Provider:     s.cfg.Provider,
		Model:        s.cfg.Model,
		MaxTokens:    s.cfg.MaxTokens,
		Temperature:  s.cfg.Temperature,
	}
}

func (s *service) ClearSession(ctx context.Context, sessionID string) error {
	id, err := uuid.Parse(strings.TrimSpace(sessionID))
	if err != nil {
		return apperrors.Wrap(CodeInvalidInput, "올바르지 않은 세션 ID입니다.", err)
	}
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, id.String()); err != nil {
		return apperrors.Wrap(CodeSession, "대화 기록을 삭제하지 못했습니다.", err)
	}
	return nil
}

func (s *service) Stats(ctx context.Context, days int) ([]OutcomeCount, error) {
	if days <= 0 {
		days = defaultStatsDays
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}
	now := s.now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
	counts, err := s.stats.Summary(ctx, since)
	if err != nil {
		return nil, apperrors.Wrap(CodeStats, "통계를 불러오지 못했습니다.", err)
	}
	return counts, nil
}

func (s *service) complete(ctx context.Context, history *History, question string, complexity screening.Complexity) (CompletionResult, error) {
	ctx, span := s.tracer.Start(ctx, "chat.complete", trace.WithAttributes(
		attribute.String("llm.provider", s.cfg.Provider),
		attribute.String("llm.model", s.cfg.Model),
		attribute.Int("chat.history_turns", history.Len()),
	))
	defer span.End()

	if s.cfg.UpstreamTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
		defer cancel()
	}

	messages := history.Recent(s.cfg.HistoryTokenBudget, s.tokens)
	messages = append(messages, Turn{Role: RoleUser, Content: buildUserPrompt(s.cfg.QuestionTemplate, question)})

	result, err := s.client.Complete(ctx, CompletionRequest{
		Model:       s.cfg.Model,
		System:      buildSystemPrompt(s.cfg.SystemPrompt, question, complexity),
		Messages:    messages,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err == nil && strings.TrimSpace(result.Text) == "" {
		err = &UpstreamError{Err: errors.New("completion text empty")}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return CompletionResult{}, err
	}
	span.SetAttributes(attribute.Int("llm.total_tokens", result.Usage.TotalTokens))
	return result, nil
}

func (s *service) logUpstreamFailure(err error) {
	attrs := []any{"error", err}
	var upstream *UpstreamError
	if errors.As(err, &upstream) && upstream.StatusCode > 0 {
		attrs = append(attrs, "status", upstream.StatusCode, "body", upstream.Body)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		attrs = append(attrs, "timeout", s.cfg.UpstreamTimeout.String())
	}
	s.logger.Error("completion failed, serving fallback answer", attrs...)
}

func (s *service) resolveSession(raw string) (string, error) {
	if !s.historyEnabled() {
		return "", nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.NewString(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *service) loadHistory(ctx context.Context, sessionID string) *History {
	if !s.historyEnabled() || sessionID == "" {
		return NewHistory(0, nil)
	}
	turns, ok, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		s.logger.Warn("session history load failed", "session_id", sessionID, "error", err)
		return NewHistory(s.cfg.HistoryTurns, nil)
	}
	if !ok {
		return NewHistory(s.cfg.HistoryTurns, nil)
	}
	return NewHistory(s.cfg.HistoryTurns, turns)
}

func (s *service) saveHistory(ctx context.Context, sessionID string, history *History) {
	if !s.historyEnabled() || sessionID == "" {
		return
	}
	if err := s.sessions.Save(ctx, sessionID, history.Turns(), s.cfg.SessionTTL); err != nil {
		s.logger.Warn("session history save failed", "session_id", sessionID, "error", err)
	}
}

func (s *service) record(ctx context.Context, outcome Outcome) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Record(ctx, outcome, s.now()); err != nil {
		s.logger.Warn("outcome stats record failed", "outcome", outcome, "error", err)
	}
}

func (s *service) invalid(reason screening.Reason, message string) error {
	return apperrors.Wrap(CodeInvalidInput, message, &ValidationError{Reason: reason})
}

func (s *service) historyEnabled() bool {
	return s.sessions != nil && s.cfg.HistoryTurns > 0
}

func (s *service) configErrorMessage() string {
	if msg := strings.TrimSpace(s.cfg.ConfigErrorMessage); msg != "" {
		return msg
	}
	return "서버 설정 오류: API 키가 설정되지 않았습니다."
}

func usageOrNil(u metrics.TokenUsage) *metrics.TokenUsage {
	if u.IsZero() {
		return nil
	}
	return &u
}
