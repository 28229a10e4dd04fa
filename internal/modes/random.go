package modes

import (
	"github.com/kovalevdev/chatmate/core/telegram/keyboard"
	"github.com/kovalevdev/chatmate/internal/compose"

	tele "gopkg.in/telebot.v4"
)

func randomMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🎲 Another fact", Unique: cbRandom}},
		[]keyboard.InlineBtn{{Text: "🏁 Enough facts", Unique: cbStart}},
	)
}

// randomFact is stateless: every press fetches one fact and re-offers the
// same two buttons.
func (d *Deps) randomFact(c tele.Context) error {
	system := d.Res.Prompt("random")
	prompt := d.message("random_request", "Tell me one surprising random fact. Keep it under four sentences.")

	fact, err := d.complete(c, "random.fact", system, prompt)
	if err != nil {
		return d.capabilityReply(c, err, randomMarkup())
	}

	if path, ok := d.Res.ImagePath("random"); ok {
		return compose.SendPhoto(c, path, fact, randomMarkup())
	}
	return compose.SendText(c, fact, randomMarkup())
}
