package modes

import (
	"github.com/kovalevdev/chatmate/core/telegram/commands"
	"github.com/kovalevdev/chatmate/core/telegram/middleware"
	"github.com/kovalevdev/chatmate/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// Register wires every mode into the registry and the FSM. Call once during
// startup, before the routers are attached.
func Register(d *Deps) {
	d.registerCommands()
	d.registerCallbacks()
	d.registerStates()
	d.Reg.SetTextFallback(d.textFallback)
}

func (d *Deps) registerCommands() {
	d.Reg.RegisterCommand("/start", commands.Command{
		Handler:     d.startHandler,
		Description: "Show the main menu",
	})
	d.Reg.RegisterCommand("/random", commands.Command{
		Handler:     d.randomFact,
		Description: "Get a random fact",
	})
	d.Reg.RegisterCommand("/gpt", commands.Command{
		Handler:     d.enterGPT,
		Description: "Chat with GPT",
	})
	d.Reg.RegisterCommand("/talk", commands.Command{
		Handler:     d.talkEntry,
		Description: "Talk to a famous character",
	})
	d.Reg.RegisterCommand("/quiz", commands.Command{
		Handler:     d.enterQuiz,
		Description: "Play a quiz",
	})
	d.Reg.RegisterCommand("/translate", commands.Command{
		Handler:     d.enterTranslate,
		Description: "Translate text",
	})
	d.Reg.RegisterCommand("/voice", commands.Command{
		Handler:     d.enterVoice,
		Description: "Voice chat",
	})
	if d.History != nil {
		d.Reg.RegisterCommand("/stats", commands.Command{
			Handler:     d.statsHandler,
			Description: "Show quiz history",
			AdminOnly:   true,
			Hidden:      true,
		})
	}
}

func (d *Deps) registerCallbacks() {
	inState := func(st state.State, h tele.HandlerFunc) tele.HandlerFunc {
		return middleware.State(d.FSM, st)(h)
	}

	_ = d.Reg.RegisterCallback(cbStart, d.startHandler)
	_ = d.Reg.RegisterCallback(cbMainMenu, d.startHandler)
	_ = d.Reg.RegisterCallback(cbBreak, d.breakHandler)

	_ = d.Reg.RegisterCallback(cbRandom, d.randomFact)
	_ = d.Reg.RegisterCallback(cbGPT, d.enterGPT)
	_ = d.Reg.RegisterCallback(cbTalk, d.talkEntry)
	_ = d.Reg.RegisterCallback(cbVoice, d.enterVoice)

	_ = d.Reg.RegisterCallback(cbQuiz, d.enterQuiz)
	_ = d.Reg.RegisterCallback(cbQuizTopic, inState(state.StateQuizSelectingTopic, d.selectTopic))
	_ = d.Reg.RegisterCallback(cbQuizMore, inState(state.StateQuizAwaitingAction, d.nextQuestion))
	_ = d.Reg.RegisterCallback(cbChangeTopic, inState(state.StateQuizAwaitingAction, d.changeTopic))
	_ = d.Reg.RegisterCallback(cbEndQuiz, d.endQuiz)

	_ = d.Reg.RegisterCallback(cbTranslate, d.enterTranslate)
	_ = d.Reg.RegisterCallback(cbLang, inState(state.StateTranslateSelectingLanguage, d.selectLanguage))
	_ = d.Reg.RegisterCallback(cbChangeLang, inState(state.StateTranslateAwaitingText, d.changeLanguage))
}

func (d *Deps) registerStates() {
	state.RegisterHandler(state.StateGPTAwaitingQuestion, d.gptQuestion)
	state.RegisterHandler(state.StateQuizSelectingTopic, d.quizText)
	state.RegisterHandler(state.StateQuizAwaitingAnswer, d.gradeAnswer)
	state.RegisterHandler(state.StateQuizAwaitingAction, d.quizText)
	state.RegisterHandler(state.StateTranslateSelectingLanguage, d.translatePrompt)
	state.RegisterHandler(state.StateTranslateAwaitingText, d.translateText)
	state.RegisterHandler(state.StateVoiceAwaitingAudio, d.voiceTurn)
}
