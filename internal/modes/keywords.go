package modes

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// keywordTriggers maps containment keywords to mode entry points, in match
// priority order. The order matters: the first keyword contained in the
// message wins, so none of these may be a substring of another.
func (d *Deps) keywordTriggers() []struct {
	keyword string
	enter   tele.HandlerFunc
} {
	return []struct {
		keyword string
		enter   tele.HandlerFunc
	}{
		{"random", d.randomFact},
		{"gpt", d.enterGPT},
		{"talk", d.talkEntry},
		{"quiz", d.enterQuiz},
		{"translate", d.enterTranslate},
		{"voice", d.enterVoice},
	}
}

// textFallback handles free text that reached no command and no FSM state:
// keyword triggers first, then an active persona dialogue, then the menu
// hint. Talk is resolved after keywords on purpose, so a user deep in a
// persona chat can still type "quiz" to switch modes.
func (d *Deps) textFallback(c tele.Context) error {
	if !d.Cfg.Modes.DisableKeywordTriggers {
		lowered := strings.ToLower(c.Text())
		for _, t := range d.keywordTriggers() {
			if strings.Contains(lowered, t.keyword) {
				return t.enter(c)
			}
		}
	}

	if session, ok := d.FSM.Talk(c.Sender().ID); ok {
		return d.talkTurn(c, session)
	}

	return d.menuHint(c)
}
