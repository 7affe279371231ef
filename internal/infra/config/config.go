package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	Chat      ChatConfig      `yaml:"chat"`
	Screening ScreeningConfig `yaml:"screening"`
	Fallback  FallbackConfig  `yaml:"fallback"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Stats     StatsConfig     `yaml:"stats"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
	Burst    int           `yaml:"burst"`
}

// LLMConfig selects and configures the completion service.
type LLMConfig struct {
	Provider         string        `yaml:"provider"`
	APIKey           string        `yaml:"apiKey"`
	BaseURL          string        `yaml:"baseUrl"`
	Model            string        `yaml:"model"`
	MaxTokens        int           `yaml:"maxTokens"`
	Temperature      float32       `yaml:"temperature"`
	Timeout          time.Duration `yaml:"timeout"`
	AnthropicVersion string        `yaml:"anthropicVersion"`
}

// ChatConfig shapes prompts, answers and conversation history.
type ChatConfig struct {
	SystemPrompt       string        `yaml:"systemPrompt"`
	QuestionTemplate   string        `yaml:"questionTemplate"`
	HistoryTurns       int           `yaml:"historyTurns"`
	HistoryTokenBudget int           `yaml:"historyTokenBudget"`
	TokenEncoding      string        `yaml:"tokenEncoding"`
	SessionTTL         time.Duration `yaml:"sessionTtl"`
	MaxAnswerLength    int           `yaml:"maxAnswerLength"`
	ConfigErrorMessage string        `yaml:"configErrorMessage"`
}

// ScreeningConfig overrides the built-in screening lists. Empty lists keep the defaults.
type ScreeningConfig struct {
	Keywords         []string `yaml:"keywords"`
	FaithExpressions []string `yaml:"faithExpressions"`
	Prohibited       []string `yaml:"prohibited"`
	Greetings        []string `yaml:"greetings"`
	AllowGreetings   bool     `yaml:"allowGreetings"`
	EmergencyPhrases []string `yaml:"emergencyPhrases"`
	EmergencyMessage string   `yaml:"emergencyMessage"`
	MinLength        int      `yaml:"minLength"`
	MaxLength        int      `yaml:"maxLength"`
	MaxRepeat        int      `yaml:"maxRepeat"`
	OffTopicMessage  string   `yaml:"offTopicMessage"`
}

// FallbackConfig overrides the canned answers served when the completion service fails.
type FallbackConfig struct {
	Default string          `yaml:"default"`
	Entries []FallbackEntry `yaml:"entries"`
}

// FallbackEntry is one keyword group of the fallback table.
type FallbackEntry struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Response string   `yaml:"response"`
}

// SessionsConfig selects the conversation history store.
type SessionsConfig struct {
	Redis RedisConfig `yaml:"redis"`
}

// StatsConfig selects the outcome stats repository. The stats endpoint is
// only served when JWTSecret is set.
type StatsConfig struct {
	Postgres  PostgresConfig `yaml:"postgres"`
	JWTSecret string         `yaml:"jwtSecret"`
}

// RedisConfig contains connection information for session storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	Insecure     bool    `yaml:"insecure"`
	SampleRatio  float64 `yaml:"sampleRatio"`
	ServiceName  string  `yaml:"serviceName"`
	Environment  string  `yaml:"environment"`
	PrettyStdout bool    `yaml:"prettyStdout"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_REQUESTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Requests = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_WINDOW"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.RateLimit.Window = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}

	if v := firstEnv("LLM_PROVIDER", "API_SERVICE"); v != "" {
		cfg.LLM.Provider = strings.ToLower(v)
	}
	if v := strings.TrimSpace(firstEnv(apiKeyEnv(cfg.LLM.Provider)...)); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := firstEnv("LLM_MODEL", "CLAUDE_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := firstEnv("LLM_MAX_TOKENS", "MAX_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxTokens = parsed
		}
	}
	if v := firstEnv("LLM_TEMPERATURE", "TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = parsed
		}
	}

	if v := os.Getenv("CHAT_SYSTEM_PROMPT"); v != "" {
		cfg.Chat.SystemPrompt = v
	}
	if v := os.Getenv("CHAT_HISTORY_TURNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Chat.HistoryTurns = parsed
		}
	}
	if v := os.Getenv("CHAT_HISTORY_TOKEN_BUDGET"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Chat.HistoryTokenBudget = parsed
		}
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Chat.SessionTTL = parsed
		}
	}
	if v := os.Getenv("SESSION_REDIS_ENABLED"); v != "" {
		cfg.Sessions.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("SESSION_REDIS_ADDR"); v != "" {
		cfg.Sessions.Redis.Addr = v
	}
	if v := os.Getenv("SCREENING_ALLOW_GREETINGS"); v != "" {
		cfg.Screening.AllowGreetings = parseBool(v)
	}

	if v := os.Getenv("STATS_JWT_SECRET"); v != "" {
		cfg.Stats.JWTSecret = v
	}
	if v := os.Getenv("STATS_POSTGRES_DSN"); v != "" {
		cfg.Stats.Postgres.DSN = v
	}
	if v := os.Getenv("STATS_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Stats.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("STATS_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Stats.Postgres.MinConns = int32(parsed)
		}
	}

	if v := os.Getenv("OTEL_ENABLED"); v != "" {
		cfg.Telemetry.Enabled = parseBool(v)
	}
	if v := os.Getenv("OTEL_TRACES_EXPORTER"); v != "" {
		cfg.Telemetry.Exporter = strings.ToLower(v)
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.Endpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"); v != "" {
		cfg.Telemetry.Insecure = parseBool(v)
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		cfg.Telemetry.ServiceName = v
	}
	if v := os.Getenv("OTEL_SAMPLE_RATIO"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Telemetry.SampleRatio = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":3000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:  true,
				Requests: 100,
				Window:   15 * time.Minute,
				Burst:    100,
			},
		},
		LLM: LLMConfig{
			Provider:         ProviderAnthropic,
			Model:            "claude-3-haiku-20240307",
			MaxTokens:        300,
			Temperature:      0.3,
			Timeout:          20 * time.Second,
			AnthropicVersion: "2023-06-01",
		},
		Chat: ChatConfig{
			SystemPrompt:       defaultSystemPrompt,
			QuestionTemplate:   defaultQuestionTemplate,
			HistoryTurns:       5,
			HistoryTokenBudget: 1500,
			TokenEncoding:      "cl100k_base",
			SessionTTL:         30 * time.Minute,
			MaxAnswerLength:    1500,
			ConfigErrorMessage: "서버 설정 오류: API 키가 설정되지 않았습니다.",
		},
		Screening: ScreeningConfig{
			AllowGreetings: true,
			MinLength:      3,
			MaxLength:      500,
			MaxRepeat:      10,
		},
		Sessions: SessionsConfig{
			Redis: RedisConfig{Prefix: "bible-chat"},
		},
		Stats: StatsConfig{
			Postgres: PostgresConfig{MaxConns: 4},
		},
		Telemetry: TelemetryConfig{
			Exporter:    ExporterOTLP,
			SampleRatio: 1,
			ServiceName: "bible-chat",
			Environment: "development",
		},
	}
}

// minJWTSecretBytes matches the HS256 output size.
const minJWTSecretBytes = 32

// Supported completion providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Supported trace exporters.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
)

const defaultSystemPrompt = `당신은 개혁신학(Reformed Theology)을 바탕으로 한 성경 교사입니다.

답변 원칙:
1. 성경 구절을 인용할 때는 반드시 책, 장, 절을 명시하세요.
2. 개혁신학의 5대 솔라(오직 성경, 오직 믿음, 오직 은혜, 오직 그리스도, 오직 하나님께 영광)를 바탕으로 답하세요.
3. 웨스트민스터 신앙고백과 하이델베르크 요리문답을 참고하세요.
4. 따뜻하고 목회적인 어조로, 쉬운 한국어로 답하세요.
5. 확실하지 않은 내용은 추측하지 말고 지역 교회 목회자와 상담하도록 권하세요.`

const defaultQuestionTemplate = "다음 질문에 성경적으로 답해주세요: {{question}}"

// Validate ensures the configuration is safe to use. A missing API key is allowed.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	for _, origin := range c.HTTP.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("http.allowedOrigins entry %q must be * or start with http:// or https://", origin)
		}
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.Requests <= 0 {
			return errors.New("http.rateLimit.requests must be positive")
		}
		if c.HTTP.RateLimit.Window <= 0 {
			return errors.New("http.rateLimit.window must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	switch c.LLM.Provider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	if strings.TrimSpace(c.Chat.SystemPrompt) == "" {
		return errors.New("chat.systemPrompt cannot be empty")
	}
	if c.Chat.HistoryTurns < 0 {
		return errors.New("chat.historyTurns cannot be negative")
	}
	if c.Chat.HistoryTokenBudget < 0 {
		return errors.New("chat.historyTokenBudget cannot be negative")
	}
	if c.Chat.SessionTTL < 0 {
		return errors.New("chat.sessionTtl cannot be negative")
	}
	if c.Screening.MinLength < 0 || c.Screening.MaxLength <= 0 || c.Screening.MinLength > c.Screening.MaxLength {
		return errors.New("screening.minLength and screening.maxLength must form a valid range")
	}
	if c.Screening.MaxRepeat <= 0 {
		return errors.New("screening.maxRepeat must be positive")
	}
	for i, entry := range c.Fallback.Entries {
		if strings.TrimSpace(entry.Response) == "" {
			return fmt.Errorf("fallback.entries[%d].response cannot be empty", i)
		}
	}
	if c.Sessions.Redis.Enabled && strings.TrimSpace(c.Sessions.Redis.Addr) == "" {
		return errors.New("sessions.redis.addr cannot be empty when redis sessions are enabled")
	}
	if secret := c.Stats.JWTSecret; secret != "" && len(secret) < minJWTSecretBytes {
		return fmt.Errorf("stats.jwtSecret must be at least %d bytes", minJWTSecretBytes)
	}
	if c.Telemetry.Enabled {
		switch c.Telemetry.Exporter {
		case ExporterOTLP, ExporterStdout:
		default:
			return fmt.Errorf("telemetry.exporter %q is not supported", c.Telemetry.Exporter)
		}
		if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
			return errors.New("telemetry.sampleRatio must be between 0 and 1")
		}
	}
	return nil
}

// apiKeyEnv lists the credential variables for a provider, generic name first.
func apiKeyEnv(provider string) []string {
	if provider == ProviderOpenAI {
		return []string{"LLM_API_KEY", "OPENAI_API_KEY"}
	}
	return []string{"LLM_API_KEY", "CLAUDE_API_KEY", "ANTHROPIC_API_KEY"}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}
