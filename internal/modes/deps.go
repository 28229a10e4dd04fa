// Package modes implements the bot's conversational features: random facts,
// free-form Q&A, persona dialogue, quiz, translation and voice chat. Each
// mode is a small state machine over the shared session store; the package
// wires its handlers into the command/callback registry and the FSM.
package modes

import (
	"context"
	"errors"
	"fmt"
	"time"

	coreconfig "github.com/kovalevdev/chatmate/core/config"
	"github.com/kovalevdev/chatmate/core/guard"
	tg "github.com/kovalevdev/chatmate/core/telegram"
	tghelpers "github.com/kovalevdev/chatmate/core/telegram/helpers"
	"github.com/kovalevdev/chatmate/core/telegram/state"
	"github.com/kovalevdev/chatmate/internal/compose"
	"github.com/kovalevdev/chatmate/internal/llm"
	"github.com/kovalevdev/chatmate/internal/resources"
	"github.com/kovalevdev/chatmate/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// Deps carries everything the mode handlers need. History is nil when the
// bot runs without a database.
type Deps struct {
	Cfg     *coreconfig.Config
	FSM     state.Manager
	Reg     *tg.Registry
	LLM     llm.Gateway
	Res     *resources.Provider
	History *storage.QuizResults
}

// callback uniques shared between keyboards and the registry.
const (
	cbRandom      = "random"
	cbStart       = "start"
	cbMainMenu    = "main_menu"
	cbBreak       = "break"
	cbGPT         = "gpt"
	cbTalk        = "talk"
	cbQuiz        = "quiz"
	cbQuizTopic   = "quiz_topic"
	cbQuizMore    = "quiz_more"
	cbChangeTopic = "change_topic"
	cbEndQuiz     = "end_quiz"
	cbTranslate   = "translate"
	cbLang        = "lang"
	cbChangeLang  = "change_lang"
	cbVoice       = "voice"
)

// message returns the template for key, falling back to the built-in default
// when the resource file is absent.
func (d *Deps) message(key, fallback string) string {
	if msg := d.Res.Message(key); msg != "" {
		return msg
	}
	return fallback
}

// complete runs a completion through the retry wrapper.
func (d *Deps) complete(c tele.Context, op, system, prompt string) (string, error) {
	ctx := tghelpers.BuildContext(c)
	return guard.Retry(ctx, d.Cfg.Modes.RetryAttempts, d.Cfg.Modes.RetryDelay(), op,
		func(ctx context.Context) (string, error) {
			return d.LLM.Complete(ctx, system, prompt)
		})
}

// retryCall runs any capability call with a typed result through the retry
// wrapper.
func retryCall[T any](d *Deps, c tele.Context, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx := tghelpers.BuildContext(c)
	return guard.Retry(ctx, d.Cfg.Modes.RetryAttempts, d.Cfg.Modes.RetryDelay(), op, fn)
}

// capabilityReply converts a failed capability call into the user-visible
// retry prompt. The keyboard keeps the user's escape hatch; state is never
// advanced or cleared here so the same input can be resubmitted.
func (d *Deps) capabilityReply(c tele.Context, err error, markup *tele.ReplyMarkup) error {
	var limitErr *guard.LimitError
	if errors.As(err, &limitErr) {
		return c.Send(d.limitMessage(limitErr), markup)
	}
	msg := d.message("retry", "Something went wrong on my side. Please try again in a moment.")
	return c.Send(msg, markup)
}

// OnLimited replies to an update rejected by the transport rate limiter.
// State stays untouched; the user just has to wait the window out.
func (d *Deps) OnLimited(c tele.Context, err *guard.LimitError) error {
	return compose.SendText(c, d.limitMessage(err), mainMenuMarkup())
}

// limitMessage names the exact budget the user ran into. The template takes
// the max count and the window, in that order.
func (d *Deps) limitMessage(err *guard.LimitError) string {
	tpl := d.message("rate_limited",
		"Easy there! You can send at most %d requests per %s. Give it a short break.")
	return fmt.Sprintf(tpl, err.Max, err.Window.Round(time.Second))
}
