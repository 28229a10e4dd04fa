package modes

import (
	"github.com/kovalevdev/chatmate/core/telegram/keyboard"
	"github.com/kovalevdev/chatmate/internal/compose"

	tele "gopkg.in/telebot.v4"
)

func mainMenuMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🎲 Random fact", Unique: cbRandom}},
		[]keyboard.InlineBtn{{Text: "🧠 Ask GPT", Unique: cbGPT}},
		[]keyboard.InlineBtn{{Text: "👤 Talk to a character", Unique: cbTalk}},
		[]keyboard.InlineBtn{{Text: "❓ Quiz", Unique: cbQuiz}},
		[]keyboard.InlineBtn{{Text: "🌍 Translator", Unique: cbTranslate}},
		[]keyboard.InlineBtn{{Text: "🎙 Voice chat", Unique: cbVoice}},
	)
}

func mainMenuButton() []keyboard.InlineBtn {
	return []keyboard.InlineBtn{{Text: "🏠 Main menu", Unique: cbMainMenu}}
}

// sendMenu shows the root menu. It never touches state; callers decide
// whether the user's session should be reset first.
func (d *Deps) sendMenu(c tele.Context) error {
	text := d.message("main_menu", "Hi! I'm ChatMate. Pick what we'll do:")
	markup := mainMenuMarkup()
	if path, ok := d.Res.ImagePath("main_menu"); ok {
		return compose.SendPhoto(c, path, text, markup)
	}
	return compose.SendText(c, text, markup)
}

// startHandler backs /start and the universal return-to-root buttons: it
// unconditionally clears the user's state and every mode session.
func (d *Deps) startHandler(c tele.Context) error {
	d.FSM.Reset(c.Sender().ID)
	return d.sendMenu(c)
}

// breakHandler ends the active dialogue and returns to the root menu.
func (d *Deps) breakHandler(c tele.Context) error {
	d.FSM.Reset(c.Sender().ID)
	text := d.message("dialog_done", "Done! What's next?")
	return compose.SendText(c, text, mainMenuMarkup())
}

// menuHint answers free text that matched nothing: nudge back to the menu.
func (d *Deps) menuHint(c tele.Context) error {
	text := d.message("unknown", "I didn't get that. Pick an option from the menu:")
	return compose.SendText(c, text, mainMenuMarkup())
}
