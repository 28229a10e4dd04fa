package modes

import (
	"github.com/kovalevdev/chatmate/core/telegram/keyboard"
	"github.com/kovalevdev/chatmate/core/telegram/state"
	"github.com/kovalevdev/chatmate/internal/compose"

	tele "gopkg.in/telebot.v4"
)

func gptMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🏁 End the chat", Unique: cbBreak}},
	)
}

// enterGPT puts the user into the Q&A loop. Each question is independent;
// the mode keeps no history between turns.
func (d *Deps) enterGPT(c tele.Context) error {
	d.FSM.EnterMode(c.Sender().ID, state.StateGPTAwaitingQuestion)
	text := d.message("gpt_intro", "Ask me anything. I'll answer with GPT.")
	if path, ok := d.Res.ImagePath("gpt"); ok {
		return compose.SendPhoto(c, path, text, gptMarkup())
	}
	return compose.SendText(c, text, gptMarkup())
}

// gptQuestion handles free text while the Q&A loop is active. The state is
// left untouched so the user can keep asking or bail out with the button.
func (d *Deps) gptQuestion(c tele.Context) error {
	answer, err := d.complete(c, "gpt.answer", d.Res.Prompt("gpt"), c.Text())
	if err != nil {
		return d.capabilityReply(c, err, gptMarkup())
	}
	return compose.SendText(c, answer, gptMarkup())
}
