// Package llm is the gateway to the language model provider. It exposes the
// three capabilities the bot needs: text completion, speech-to-text and
// text-to-speech. Every call carries a per-request timeout from config and
// returns classified errors so callers can decide what to retry.
package llm

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	coreconfig "github.com/kovalevdev/chatmate/core/config"
	"github.com/kovalevdev/chatmate/core/guard"
	"github.com/kovalevdev/chatmate/core/logger"
	"log/slog"
)

// Gateway is the capability surface consumed by the conversation modes.
type Gateway interface {
	// Complete sends a single-turn prompt, optionally preceded by a system
	// instruction, and returns the model's text reply.
	Complete(ctx context.Context, system, prompt string) (string, error)
	// Transcribe converts an OGG/Opus voice recording into text.
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
	// Synthesize renders text into OGG/Opus speech audio.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Client implements Gateway on top of the OpenAI API.
type Client struct {
	api        openai.Client
	chatModel  string
	sttModel   string
	ttsModel   string
	ttsVoice   string
	reqTimeout func(context.Context) (context.Context, context.CancelFunc)
}

// NewClient builds a Client from the openai config section.
func NewClient(cfg coreconfig.OpenAIConfig) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	timeout := cfg.Timeout()
	return &Client{
		api:       openai.NewClient(opts...),
		chatModel: cfg.ChatModel,
		sttModel:  cfg.TranscribeModel,
		ttsModel:  cfg.SpeechModel,
		ttsVoice:  cfg.Voice,
		reqTimeout: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, timeout)
		},
	}
}

// Complete implements Gateway.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", guard.NonRetryable(&CapabilityError{
			Op:   "complete",
			Kind: KindInvalidInput,
			Err:  fmt.Errorf("empty prompt"),
		})
	}

	ctx, cancel := c.reqTimeout(ctx)
	defer cancel()

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    openai.ChatModel(c.chatModel),
	})
	if err != nil {
		return "", wrapErr("complete", err)
	}
	if len(resp.Choices) == 0 {
		return "", &CapabilityError{
			Op:   "complete",
			Kind: KindProvider,
			Err:  fmt.Errorf("no choices in response"),
		}
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	logger.LLM.LogAttrs(ctx, slog.LevelDebug, "complete",
		slog.String("model", c.chatModel),
		slog.Int("prompt_len", len(prompt)),
		slog.Int("reply_len", len(out)),
	)
	return out, nil
}

// Transcribe implements Gateway.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if audio == nil {
		return "", guard.NonRetryable(&CapabilityError{
			Op:   "transcribe",
			Kind: KindInvalidInput,
			Err:  fmt.Errorf("nil audio reader"),
		})
	}

	ctx, cancel := c.reqTimeout(ctx)
	defer cancel()

	resp, err := c.api.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(audio, filename, "audio/ogg"),
		Model: openai.AudioModel(c.sttModel),
	})
	if err != nil {
		return "", wrapErr("transcribe", err)
	}

	text := strings.TrimSpace(resp.Text)
	logger.LLM.LogAttrs(ctx, slog.LevelDebug, "transcribe",
		slog.String("model", c.sttModel),
		slog.Int("text_len", len(text)),
	)
	return text, nil
}

// Synthesize implements Gateway.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, guard.NonRetryable(&CapabilityError{
			Op:   "synthesize",
			Kind: KindInvalidInput,
			Err:  fmt.Errorf("empty text"),
		})
	}

	ctx, cancel := c.reqTimeout(ctx)
	defer cancel()

	resp, err := c.api.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(c.ttsModel),
		Voice:          openai.AudioSpeechNewParamsVoice(c.ttsVoice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatOpus,
	})
	if err != nil {
		return nil, wrapErr("synthesize", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapErr("synthesize", err)
	}
	logger.LLM.LogAttrs(ctx, slog.LevelDebug, "synthesize",
		slog.String("model", c.ttsModel),
		slog.String("voice", c.ttsVoice),
		slog.Int("bytes", len(data)),
	)
	return data, nil
}
