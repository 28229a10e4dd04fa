package modes

import (
	"fmt"

	"github.com/kovalevdev/chatmate/core/telegram/callbacks"
	"github.com/kovalevdev/chatmate/core/telegram/keyboard"
	"github.com/kovalevdev/chatmate/core/telegram/state"
	"github.com/kovalevdev/chatmate/internal/compose"
	"github.com/kovalevdev/chatmate/internal/resources"

	tele "gopkg.in/telebot.v4"
)

func personaMarkup() *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(resources.Personas)+1)
	for _, p := range resources.Personas {
		rows = append(rows, []keyboard.InlineBtn{{Text: p.Name, Unique: cbTalk, Data: p.ID}})
	}
	rows = append(rows, mainMenuButton())
	return keyboard.InlineButtonsRows(rows...)
}

func talkMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "👥 Change character", Unique: cbTalk}},
		[]keyboard.InlineBtn{{Text: "🏁 End the chat", Unique: cbBreak}},
	)
}

// talkEntry shows the persona keyboard, or selects a persona when the button
// carries one. Entering the picker wipes whatever mode was active.
func (d *Deps) talkEntry(c tele.Context) error {
	if cb := c.Callback(); cb != nil {
		if id := callbacks.CallbackPayload(c); id != "" {
			return d.selectPersona(c, id)
		}
	}
	d.FSM.Reset(c.Sender().ID)
	text := d.message("talk_intro", "Who would you like to talk to?")
	return compose.SendText(c, text, personaMarkup())
}

// selectPersona loads the character definition once and stores it in the
// session. Picking a new persona replaces the old one, it never merges.
func (d *Deps) selectPersona(c tele.Context, id string) error {
	persona, ok := resources.PersonaByID(id)
	if !ok {
		text := d.message("talk_unknown", "I don't know that character. Pick one from the list:")
		return compose.SendText(c, text, personaMarkup())
	}

	userID := c.Sender().ID
	d.FSM.EnterMode(userID, state.StateIdle)
	d.FSM.SetTalk(userID, state.TalkSession{
		PersonaID:     persona.ID,
		PersonaPrompt: d.Res.Prompt("talk_" + persona.ID),
	})

	text := fmt.Sprintf(d.message("talk_selected", "You're now talking to %s. Say something!"), persona.Name)
	if path, ok := d.Res.ImagePath("talk_" + persona.ID); ok {
		return compose.SendPhoto(c, path, text, talkMarkup())
	}
	return compose.SendText(c, text, talkMarkup())
}

// talkTurn forwards free text to the active persona. The persona prompt is
// replayed in full on every turn; prior turns are not accumulated.
func (d *Deps) talkTurn(c tele.Context, session state.TalkSession) error {
	reply, err := d.complete(c, "talk.turn", session.PersonaPrompt, c.Text())
	if err != nil {
		return d.capabilityReply(c, err, talkMarkup())
	}
	return compose.SendText(c, reply, talkMarkup())
}
