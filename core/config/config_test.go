package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		OpenAI:   OpenAIConfig{APIKey: "sk-test"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, 60, cfg.OpenAI.TimeoutSeconds)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.ChatModel)
	assert.Equal(t, "whisper-1", cfg.OpenAI.TranscribeModel)
	assert.Equal(t, "gpt-4o-mini-tts", cfg.OpenAI.SpeechModel)
	assert.Equal(t, "nova", cfg.OpenAI.Voice)
	assert.Equal(t, "resources", cfg.Resources.Dir)
	assert.Equal(t, 30, cfg.Modes.MaxVoiceSeconds)
	assert.Equal(t, 3, cfg.Modes.RetryAttempts)
	assert.Equal(t, time.Second, cfg.Modes.RetryDelay())
	assert.False(t, cfg.Database.Enabled())
}

func TestNormalizeRequiredFields(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	require.Error(t, Normalize(cfg))

	cfg = validConfig()
	cfg.OpenAI.APIKey = ""
	require.Error(t, Normalize(cfg))

	require.Error(t, Normalize(nil))
}

func TestNormalizeRunModes(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)

	cfg = validConfig()
	cfg.Telegram.RunMode = "webhook"
	require.Error(t, Normalize(cfg), "webhook mode needs url/listen/port")

	cfg = validConfig()
	cfg.Telegram.RunMode = "webhook"
	cfg.Webhook = WebhookConfig{URL: "https://example.com/hook", Listen: "0.0.0.0", Port: 8443}
	require.NoError(t, Normalize(cfg))

	cfg = validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	require.Error(t, Normalize(cfg))
}

func TestNormalizeRateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.MaxRequests = 5
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, 60, cfg.RateLimit.WindowSeconds)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())

	cfg = validConfig()
	cfg.RateLimit.MaxRequests = -1
	require.Error(t, Normalize(cfg))

	cfg = validConfig()
	cfg.RateLimit.MaxRequests = 5
	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "message"}
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, []string{"callback", "message"}, cfg.RateLimit.ExcludeUpdates)

	cfg = validConfig()
	cfg.RateLimit.MaxRequests = 5
	cfg.RateLimit.ExcludeUpdates = []string{"sticker"}
	require.Error(t, Normalize(cfg))
}

func TestNormalizeDatabaseDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = "localhost"
	require.NoError(t, Normalize(cfg))

	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 4, cfg.Database.MaxConnections)
}
