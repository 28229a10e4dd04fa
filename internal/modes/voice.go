package modes

import (
	"context"
	"fmt"

	tghelpers "github.com/kovalevdev/chatmate/core/telegram/helpers"
	"github.com/kovalevdev/chatmate/core/telegram/keyboard"
	"github.com/kovalevdev/chatmate/core/telegram/state"
	"github.com/kovalevdev/chatmate/internal/compose"
	"log/slog"

	"github.com/kovalevdev/chatmate/core/logger"

	tele "gopkg.in/telebot.v4"
)

func voiceMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🏁 End the chat", Unique: cbBreak}},
	)
}

// enterVoice starts the voice loop: the user records a message, the bot
// answers with synthesized speech.
func (d *Deps) enterVoice(c tele.Context) error {
	d.FSM.EnterMode(c.Sender().ID, state.StateVoiceAwaitingAudio)
	text := d.message("voice_intro", "Record a voice message and I'll answer in kind.")
	if path, ok := d.Res.ImagePath("voice"); ok {
		return compose.SendPhoto(c, path, text, voiceMarkup())
	}
	return compose.SendText(c, text, voiceMarkup())
}

// UnexpectedVoice answers a voice note sent while voice chat isn't active.
func (d *Deps) UnexpectedVoice(c tele.Context) error {
	text := d.message("voice_unexpected", "Start the voice chat first and I'll listen.")
	return compose.SendText(c, text, mainMenuMarkup())
}

// voiceTurn handles one inbound update in the voice loop: transcribe the
// recording, complete a reply, speak it back. Text input and over-long
// recordings re-prompt without leaving the state.
func (d *Deps) voiceTurn(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Voice == nil {
		text := d.message("voice_only", "This mode is voice-only. Record a voice message, or end the chat below.")
		return compose.SendText(c, text, voiceMarkup())
	}
	if max := d.Cfg.Modes.MaxVoiceSeconds; msg.Voice.Duration > max {
		text := fmt.Sprintf(d.message("voice_too_long", "That recording is too long. Please keep it under %d seconds."), max)
		return compose.SendText(c, text, voiceMarkup())
	}

	ctx := tghelpers.BuildContext(c)
	question, err := retryCall(d, c, "voice.transcribe", func(ctx2 context.Context) (string, error) {
		rc, err := c.Bot().File(&msg.Voice.File)
		if err != nil {
			return "", err
		}
		defer func() { _ = rc.Close() }()
		return d.LLM.Transcribe(ctx2, rc, "voice.ogg")
	})
	if err != nil {
		return d.capabilityReply(c, err, voiceMarkup())
	}
	if question == "" {
		text := d.message("voice_unclear", "I couldn't make that out. Could you try again?")
		return compose.SendText(c, text, voiceMarkup())
	}
	echo := fmt.Sprintf(d.message("voice_heard", "You said: %s"), question)
	if err := compose.SendText(c, echo, nil); err != nil {
		return err
	}

	reply, err := d.complete(c, "voice.answer", d.Res.Prompt("voice"), question)
	if err != nil {
		return d.capabilityReply(c, err, voiceMarkup())
	}

	audio, err := retryCall(d, c, "voice.synthesize", func(ctx2 context.Context) ([]byte, error) {
		return d.LLM.Synthesize(ctx2, reply)
	})
	if err != nil {
		// The answer exists, only the speech failed. Deliver it as text.
		logger.L.LogAttrs(ctx, slog.LevelWarn, "voice.tts_failed",
			slog.Int64("user_id", c.Sender().ID),
			slog.String("err", err.Error()),
		)
		return compose.SendText(c, reply, voiceMarkup())
	}
	return compose.SendVoice(c, audio, reply, voiceMarkup())
}
