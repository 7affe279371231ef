package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"
	"go.opentelemetry.io/otel/trace"

	"github.com/yanqian/bible-chat/internal/domain/chat"
	"github.com/yanqian/bible-chat/internal/domain/fallback"
	"github.com/yanqian/bible-chat/internal/domain/screening"
	"github.com/yanqian/bible-chat/internal/infra/config"
	"github.com/yanqian/bible-chat/internal/infra/llm/anthropic"
	"github.com/yanqian/bible-chat/internal/infra/llm/openai"
	"github.com/yanqian/bible-chat/internal/infra/sessionstore"
	"github.com/yanqian/bible-chat/internal/infra/statsrepo"
	"github.com/yanqian/bible-chat/internal/infra/telemetry"
	"github.com/yanqian/bible-chat/internal/infra/tokenizer"
)

func provideChatConfig(cfg *config.Config) chat.Config {
	return chat.Config{
		Provider:           cfg.LLM.Provider,
		Model:              cfg.LLM.Model,
		MaxTokens:          cfg.LLM.MaxTokens,
		Temperature:        cfg.LLM.Temperature,
		APIKeyLength:       len(cfg.LLM.APIKey),
		UpstreamTimeout:    cfg.LLM.Timeout,
		SystemPrompt:       cfg.Chat.SystemPrompt,
		QuestionTemplate:   cfg.Chat.QuestionTemplate,
		HistoryTurns:       cfg.Chat.HistoryTurns,
		HistoryTokenBudget: cfg.Chat.HistoryTokenBudget,
		SessionTTL:         cfg.Chat.SessionTTL,
		MaxAnswerLength:    cfg.Chat.MaxAnswerLength,
		ConfigErrorMessage: cfg.Chat.ConfigErrorMessage,
	}
}

func provideScreeningFilter(cfg *config.Config) *screening.Filter {
	sc := screening.DefaultConfig()
	src := cfg.Screening
	if len(src.Keywords) > 0 {
		sc.Keywords = src.Keywords
	}
	if len(src.FaithExpressions) > 0 {
		sc.FaithExpressions = src.FaithExpressions
	}
	if len(src.Prohibited) > 0 {
		sc.Prohibited = src.Prohibited
	}
	if len(src.Greetings) > 0 {
		sc.Greetings = src.Greetings
	}
	if len(src.EmergencyPhrases) > 0 {
		sc.EmergencyPhrases = src.EmergencyPhrases
	}
	if msg := strings.TrimSpace(src.EmergencyMessage); msg != "" {
		sc.EmergencyMessage = msg
	}
	if msg := strings.TrimSpace(src.OffTopicMessage); msg != "" {
		sc.Messages.OffTopic = msg
	}
	sc.AllowGreetings = src.AllowGreetings
	if src.MinLength > 0 {
		sc.MinLength = src.MinLength
	}
	if src.MaxLength > 0 {
		sc.MaxLength = src.MaxLength
	}
	if src.MaxRepeat > 0 {
		sc.MaxRepeat = src.MaxRepeat
	}
	return screening.NewFilter(sc)
}

func provideFallbackSelector(cfg *config.Config) *fallback.Selector {
	entries := fallback.DefaultEntries()
	if len(cfg.Fallback.Entries) > 0 {
		entries = make([]fallback.Entry, 0, len(cfg.Fallback.Entries))
		for _, e := range cfg.Fallback.Entries {
			entries = append(entries, fallback.Entry{Name: e.Name, Keywords: e.Keywords, Response: e.Response})
		}
	}
	return fallback.NewSelector(entries, cfg.Fallback.Default)
}

func provideCompletionClient(cfg *config.Config, logger *slog.Logger) chat.CompletionClient {
	if cfg.LLM.APIKey == "" {
		logger.Warn("llm api key not set, chat requests will fail with a configuration error", "provider", cfg.LLM.Provider)
	}
	if cfg.LLM.Provider == config.ProviderOpenAI {
		return openai.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	}
	return anthropic.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.AnthropicVersion)
}

func provideTokenCounter(cfg *config.Config, logger *slog.Logger) chat.TokenCounter {
	if cfg.Chat.HistoryTurns <= 0 || cfg.Chat.HistoryTokenBudget <= 0 {
		return tokenizer.NewEstimator()
	}
	return tokenizer.NewCounter(cfg.Chat.TokenEncoding, logger)
}

func provideSessionStore(cfg *config.Config, logger *slog.Logger) (chat.SessionStore, func()) {
	noop := func() {}
	if cfg.Chat.HistoryTurns <= 0 {
		logger.Info("conversation history disabled")
		return nil, noop
	}
	if !cfg.Sessions.Redis.Enabled {
		return sessionstore.NewMemoryStore(), noop
	}
	opt, err := buildValkeyOptions(cfg.Sessions.Redis.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return sessionstore.NewMemoryStore(), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return sessionstore.NewMemoryStore(), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return sessionstore.NewMemoryStore(), noop
	}
	logger.Info("valkey session store enabled", "addr", cfg.Sessions.Redis.Addr)
	return sessionstore.NewValkeyStore(client, cfg.Sessions.Redis.Prefix), client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideStatsRepository(cfg *config.Config, logger *slog.Logger) (chat.StatsRepository, func()) {
	noop := func() {}
	memRepo := statsrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Stats.Postgres.DSN)
	if dsn == "" {
		logger.Info("stats postgres dsn not set, using memory repository")
		return memRepo, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return memRepo, noop
	}
	if cfg.Stats.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Stats.Postgres.MaxConns
	}
	if cfg.Stats.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Stats.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return memRepo, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return memRepo, noop
	}
	repo := statsrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("stats schema setup failed, using memory repository", "error", err)
		pool.Close()
		return memRepo, noop
	}
	logger.Info("stats postgres repository enabled")
	return repo, pool.Close
}

func provideTracerProvider(cfg *config.Config, logger *slog.Logger) (trace.TracerProvider, func(), error) {
	tp, shutdown, err := telemetry.Setup(context.Background(), cfg.Telemetry, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("tracer provider shutdown failed", "error", err)
		}
	}
	return tp, cleanup, nil
}
