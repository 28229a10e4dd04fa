// Package compose shapes mode output into Telegram messages: caption
// truncation, photo replies with a text fallback, and voice replies. Media
// failures never lose the answer; the text and keyboard are always delivered.
package compose

import (
	"bytes"

	"github.com/kovalevdev/chatmate/core/logger"
	tghelpers "github.com/kovalevdev/chatmate/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CaptionLimit is Telegram's maximum caption length for media messages.
const CaptionLimit = 1024

// Truncate shortens s to at most limit runes, replacing the tail with "..."
// when it does not fit. Truncation is rune-safe.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := limit - 4
	if cut < 0 {
		cut = 0
	}
	return string(runes[:cut]) + "..."
}

// SendPhoto sends an image with the caption and keyboard. When the photo
// cannot be delivered the caption is sent as plain text instead, keeping the
// keyboard so the conversation does not dead-end.
func SendPhoto(c tele.Context, path, caption string, markup *tele.ReplyMarkup) error {
	photo := &tele.Photo{
		File:    tele.FromDisk(path),
		Caption: Truncate(caption, CaptionLimit),
	}

	var err error
	if markup != nil {
		err = c.Send(photo, markup)
	} else {
		err = c.Send(photo)
	}
	if err == nil {
		return nil
	}

	logger.Warn(tghelpers.BuildContext(c), "compose", "photo.fallback",
		slog.String("path", path),
		slog.String("err", err.Error()),
	)
	if markup != nil {
		return c.Send(caption, markup)
	}
	return c.Send(caption)
}

// SendVoice sends synthesized audio as a Telegram voice note. When the voice
// message cannot be delivered the spoken text is sent as plain text instead.
func SendVoice(c tele.Context, audio []byte, spokenText string, markup *tele.ReplyMarkup) error {
	voice := &tele.Voice{
		File: tele.FromReader(bytes.NewReader(audio)),
	}

	var err error
	if markup != nil {
		err = c.Send(voice, markup)
	} else {
		err = c.Send(voice)
	}
	if err == nil {
		return nil
	}

	logger.Warn(tghelpers.BuildContext(c), "compose", "voice.fallback",
		slog.Int("bytes", len(audio)),
		slog.String("err", err.Error()),
	)
	if markup != nil {
		return c.Send(spokenText, markup)
	}
	return c.Send(spokenText)
}

// SendText sends text with an optional keyboard through the async sender
// queue. No truncation: plain messages have a far higher limit and the modes
// stay well under it.
func SendText(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if markup != nil {
		return tghelpers.SendText(c, text, &tele.SendOptions{ReplyMarkup: markup})
	}
	return tghelpers.SendText(c, text)
}
