package bootstrap

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bible-chat/internal/infra/config"
	"github.com/yanqian/bible-chat/internal/infra/llm/anthropic"
	"github.com/yanqian/bible-chat/internal/infra/llm/openai"
	"github.com/yanqian/bible-chat/internal/infra/sessionstore"
	"github.com/yanqian/bible-chat/internal/infra/statsrepo"
)

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Provider:    config.ProviderAnthropic,
			APIKey:      "sk-ant-0123456789",
			Model:       "claude-test",
			MaxTokens:   300,
			Temperature: 0.3,
			Timeout:     20 * time.Second,
		},
		Chat: config.ChatConfig{
			SystemPrompt: "prompt",
			HistoryTurns: 5,
			SessionTTL:   time.Minute,
		},
		Screening: config.ScreeningConfig{AllowGreetings: true},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvideChatConfigKeepsOnlyKeyLength(t *testing.T) {
	cfg := provideChatConfig(testConfig())
	require.Equal(t, 17, cfg.APIKeyLength)
	require.Equal(t, 20*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, "claude-test", cfg.Model)
}

func TestProvideScreeningFilterOverrides(t *testing.T) {
	cfg := testConfig()
	filter := provideScreeningFilter(cfg)
	require.True(t, filter.IsRelevant("기도는 어떻게 하나요?"))
	require.True(t, filter.IsRelevant("안녕하세요"))

	cfg.Screening.Keywords = []string{"grace"}
	cfg.Screening.AllowGreetings = false
	cfg.Screening.OffTopicMessage = "off topic"
	filter = provideScreeningFilter(cfg)
	require.True(t, filter.IsRelevant("amazing grace"))
	require.False(t, filter.IsRelevant("안녕하세요"))
	require.Equal(t, "off topic", filter.Validate("what is lunch today").Message)
}

func TestProvideFallbackSelectorOverrides(t *testing.T) {
	cfg := testConfig()
	cfg.Fallback = config.FallbackConfig{
		Default: "default answer",
		Entries: []config.FallbackEntry{{Name: "grace", Keywords: []string{"은혜"}, Response: "grace answer"}},
	}
	selector := provideFallbackSelector(cfg)
	require.Equal(t, "grace answer", selector.Select("은혜란?"))
	require.Equal(t, "default answer", selector.Select("기도"))
}

func TestProvideCompletionClientByProvider(t *testing.T) {
	cfg := testConfig()
	require.IsType(t, &anthropic.Client{}, provideCompletionClient(cfg, discardLogger()))

	cfg.LLM.Provider = config.ProviderOpenAI
	require.IsType(t, &openai.Client{}, provideCompletionClient(cfg, discardLogger()))
}

func TestProvideSessionStore(t *testing.T) {
	cfg := testConfig()
	store, cleanup := provideSessionStore(cfg, discardLogger())
	defer cleanup()
	require.IsType(t, &sessionstore.MemoryStore{}, store)

	cfg.Chat.HistoryTurns = 0
	store, cleanup = provideSessionStore(cfg, discardLogger())
	defer cleanup()
	require.Nil(t, store)
}

func TestProvideStatsRepositoryFallsBackToMemory(t *testing.T) {
	cfg := testConfig()
	repo, cleanup := provideStatsRepository(cfg, discardLogger())
	defer cleanup()
	require.IsType(t, &statsrepo.MemoryRepository{}, repo)

	cfg.Stats.Postgres.DSN = "://not a dsn"
	repo, cleanup = provideStatsRepository(cfg, discardLogger())
	defer cleanup()
	require.IsType(t, &statsrepo.MemoryRepository{}, repo)
}
