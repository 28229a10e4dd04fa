package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings that are common for all bots.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Stacks      string `yaml:"stacks"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	ErrorsFile  string `yaml:"errors_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
	// UpdateInlineQuery identifies inline query updates for rate limit exclusions.
	UpdateInlineQuery = "inline_query"
)

// RateLimitConfig holds settings for the per-user sliding window limiter.
// A user may issue at most MaxRequests requests per WindowSeconds; the
// counter resets once the window has fully elapsed since its first request.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
// - "inline_query": inline query updates
type RateLimitConfig struct {
	MaxRequests    int      `yaml:"max_requests" envconfig:"RATE_LIMIT_MAX_REQUESTS"`
	WindowSeconds  int      `yaml:"window_seconds" envconfig:"RATE_LIMIT_WINDOW_SECONDS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Window returns the limiter window as a duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// OpenAIConfig holds credentials and model selection for the LLM gateway.
type OpenAIConfig struct {
	APIKey          string `yaml:"api_key" envconfig:"OPENAI_API_KEY"`
	BaseURL         string `yaml:"base_url" envconfig:"OPENAI_BASE_URL"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" envconfig:"OPENAI_TIMEOUT_SECONDS"`
	ChatModel       string `yaml:"chat_model" envconfig:"OPENAI_CHAT_MODEL"`
	SpeechModel     string `yaml:"speech_model" envconfig:"OPENAI_SPEECH_MODEL"`
	TranscribeModel string `yaml:"transcribe_model" envconfig:"OPENAI_TRANSCRIBE_MODEL"`
	Voice           string `yaml:"voice" envconfig:"OPENAI_TTS_VOICE"`
}

// Timeout returns the per-request LLM timeout.
func (o OpenAIConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// ResourcesConfig points at the directory with message/prompt templates and images.
type ResourcesConfig struct {
	Dir string `yaml:"dir" envconfig:"RESOURCES_DIR"`
}

// ModesConfig tunes the conversational mode handlers.
type ModesConfig struct {
	// DisableKeywordTriggers turns off the legacy substring triggers
	// ("quiz" inside a free-text message enters quiz mode). Slash commands
	// always work; the triggers are on unless disabled here.
	DisableKeywordTriggers bool `yaml:"disable_keyword_triggers" envconfig:"MODES_DISABLE_KEYWORD_TRIGGERS"`
	// MaxVoiceSeconds caps the duration of inbound voice messages.
	MaxVoiceSeconds int `yaml:"max_voice_seconds" envconfig:"MODES_MAX_VOICE_SECONDS"`
	// RetryAttempts and RetryDelayMS shape the capability retry wrapper.
	RetryAttempts int `yaml:"retry_attempts" envconfig:"MODES_RETRY_ATTEMPTS"`
	RetryDelayMS  int `yaml:"retry_delay_ms" envconfig:"MODES_RETRY_DELAY_MS"`
}

// RetryDelay returns the delay between capability retry attempts.
func (m ModesConfig) RetryDelay() time.Duration {
	return time.Duration(m.RetryDelayMS) * time.Millisecond
}

// DatabaseConfig holds optional Postgres settings for quiz result history.
// An empty host disables persistence entirely.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// Enabled reports whether a database target is configured.
func (d DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(d.Host) != ""
}

// Config aggregates the configuration that belongs to the reusable core.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Resources ResourcesConfig `yaml:"resources"`
	Modes     ModesConfig     `yaml:"modes"`
	Database  DatabaseConfig  `yaml:"database"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("openai api key is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.RateLimit.MaxRequests < 0 {
		return fmt.Errorf("rate_limit.max_requests must be >= 0")
	}
	if cfg.RateLimit.MaxRequests > 0 && cfg.RateLimit.WindowSeconds <= 0 {
		cfg.RateLimit.WindowSeconds = 60
	}

	allowed := map[string]struct{}{
		UpdateCallback:    {},
		UpdateMessage:     {},
		UpdateInlineQuery: {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message, inline_query", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}

	if cfg.OpenAI.TimeoutSeconds <= 0 {
		cfg.OpenAI.TimeoutSeconds = 60
	}
	if cfg.OpenAI.ChatModel == "" {
		cfg.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if cfg.OpenAI.TranscribeModel == "" {
		cfg.OpenAI.TranscribeModel = "whisper-1"
	}
	if cfg.OpenAI.SpeechModel == "" {
		cfg.OpenAI.SpeechModel = "gpt-4o-mini-tts"
	}
	if cfg.OpenAI.Voice == "" {
		cfg.OpenAI.Voice = "nova"
	}

	if cfg.Resources.Dir == "" {
		cfg.Resources.Dir = "resources"
	}

	if cfg.Modes.MaxVoiceSeconds <= 0 {
		cfg.Modes.MaxVoiceSeconds = 30
	}
	if cfg.Modes.RetryAttempts <= 0 {
		cfg.Modes.RetryAttempts = 3
	}
	if cfg.Modes.RetryDelayMS <= 0 {
		cfg.Modes.RetryDelayMS = 1000
	}

	if cfg.Database.Enabled() {
		if cfg.Database.Port == "" {
			cfg.Database.Port = "5432"
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
		if cfg.Database.MaxConnections <= 0 {
			cfg.Database.MaxConnections = 4
		}
	}

	return nil
}
