package modes

import (
	"context"
	"fmt"

	"github.com/kovalevdev/chatmate/core/telegram/callbacks"
	"github.com/kovalevdev/chatmate/core/telegram/keyboard"
	"github.com/kovalevdev/chatmate/core/telegram/state"
	"github.com/kovalevdev/chatmate/internal/compose"
	"github.com/kovalevdev/chatmate/internal/llm"
	"github.com/kovalevdev/chatmate/internal/resources"

	tele "gopkg.in/telebot.v4"
)

func languageMarkup() *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(resources.Languages))
	for _, l := range resources.Languages {
		buttons = append(buttons, keyboard.InlineBtn{Text: l.Name, Unique: cbLang, Data: l.Code})
	}
	rows := make([][]keyboard.InlineBtn, 0, len(buttons)/2+2)
	for i := 0; i < len(buttons); i += 2 {
		end := i + 2
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	rows = append(rows, mainMenuButton())
	return keyboard.InlineButtonsRows(rows...)
}

func translateMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🌐 Change language", Unique: cbChangeLang}},
		[]keyboard.InlineBtn{{Text: "🏁 End translating", Unique: cbBreak}},
	)
}

// enterTranslate opens language selection. Only button presses move the
// flow forward; free text while selecting just re-prompts.
func (d *Deps) enterTranslate(c tele.Context) error {
	d.FSM.EnterMode(c.Sender().ID, state.StateTranslateSelectingLanguage)
	text := d.message("translate_intro", "Which language should I translate into?")
	if path, ok := d.Res.ImagePath("translate"); ok {
		return compose.SendPhoto(c, path, text, languageMarkup())
	}
	return compose.SendText(c, text, languageMarkup())
}

// selectLanguage validates the pressed language and starts the translating
// loop. The chosen language sticks until changed or the mode ends.
func (d *Deps) selectLanguage(c tele.Context) error {
	lang, ok := resources.LanguageByCode(callbacks.CallbackPayload(c))
	if !ok {
		text := d.message("translate_unknown_lang", "That language isn't on the list. Pick one:")
		return compose.SendText(c, text, languageMarkup())
	}

	userID := c.Sender().ID
	d.FSM.SetTranslate(userID, state.TranslateSession{Language: lang.Code})
	d.FSM.SetState(userID, state.StateTranslateAwaitingText)

	text := fmt.Sprintf(d.message("translate_ready", "Translating into %s. Send me any text."), lang.Name)
	return compose.SendText(c, text, translateMarkup())
}

// changeLanguage re-opens language selection, keeping the mode active.
func (d *Deps) changeLanguage(c tele.Context) error {
	d.FSM.SetState(c.Sender().ID, state.StateTranslateSelectingLanguage)
	text := d.message("translate_intro", "Which language should I translate into?")
	return compose.SendText(c, text, languageMarkup())
}

// translateText translates free text into the session language. A session
// without a language (corrupted or lost) falls back to selection instead of
// erroring out.
func (d *Deps) translateText(c tele.Context) error {
	userID := c.Sender().ID
	session, ok := d.FSM.Translate(userID)
	lang, known := resources.LanguageByCode(session.Language)
	if !ok || !known {
		d.FSM.SetState(userID, state.StateTranslateSelectingLanguage)
		text := d.message("translate_intro", "Which language should I translate into?")
		return compose.SendText(c, text, languageMarkup())
	}

	input := c.Text()
	out, err := retryCall(d, c, "translate.text", func(ctx context.Context) (string, error) {
		return llm.Translate(ctx, d.LLM, lang.Name, input)
	})
	if err != nil {
		return d.capabilityReply(c, err, translateMarkup())
	}
	return compose.SendText(c, out, translateMarkup())
}

// translatePrompt answers free text while a language button press is
// expected.
func (d *Deps) translatePrompt(c tele.Context) error {
	text := d.message("translate_pick_lang", "Use the buttons to pick a language:")
	return compose.SendText(c, text, languageMarkup())
}
