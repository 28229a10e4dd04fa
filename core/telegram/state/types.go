package state

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"

	// StateGPTAwaitingQuestion waits for a free-form question to complete.
	StateGPTAwaitingQuestion State = "gpt/awaiting_question"

	// Quiz cycle: pick a topic, answer the generated question, choose what
	// to do next (another question, new topic, or finish).
	StateQuizSelectingTopic State = "quiz/selecting_topic"
	StateQuizAwaitingAnswer State = "quiz/awaiting_answer"
	StateQuizAwaitingAction State = "quiz/awaiting_action"

	// Translator cycle: pick a target language, then translate every message.
	StateTranslateSelectingLanguage State = "translate/selecting_language"
	StateTranslateAwaitingText      State = "translate/awaiting_text"

	// StateVoiceAwaitingAudio waits for a voice message to transcribe.
	StateVoiceAwaitingAudio State = "voice/awaiting_audio"
)

// TalkSession is the persona dialogue payload. Talk mode has no named state:
// the presence of this session is what routes free text to the persona.
type TalkSession struct {
	PersonaID string
	// PersonaPrompt is the character definition loaded once on selection and
	// replayed in full on every turn. Prior turns are never accumulated.
	PersonaPrompt string
}

// QuizSession carries quiz progress across turns.
type QuizSession struct {
	Topic string
	Score int
	// CurrentQuestion is graded against the next answer; PreviousQuestion is
	// passed back to the generator to bias it away from repeating itself.
	CurrentQuestion  string
	PreviousQuestion string
}

// TranslateSession remembers the selected target language.
type TranslateSession struct {
	Language string
}

// Session stores the conversation state and per-mode data for one user.
// At most one mode is ever active: entering a mode wipes everything else.
type Session struct {
	State     State
	Talk      *TalkSession
	Quiz      *QuizSession
	Translate *TranslateSession
}

// Manager orchestrates user sessions and FSM state transitions.
type Manager interface {
	// Dialog state
	SetState(userID int64, st State)
	GetState(userID int64) State
	HasState(userID int64) bool
	ClearState(userID int64)

	// Mode sessions. Getters return copies; mutate through the setters.
	Talk(userID int64) (TalkSession, bool)
	SetTalk(userID int64, s TalkSession)
	ClearTalk(userID int64)
	Quiz(userID int64) (QuizSession, bool)
	SetQuiz(userID int64, s QuizSession)
	Translate(userID int64) (TranslateSession, bool)
	SetTranslate(userID int64, s TranslateSession)

	// Reset drops the state and every mode session for the user.
	Reset(userID int64)
	// EnterMode performs the destructive mode switch: Reset then SetState.
	EnterMode(userID int64, st State)

	// WithUser runs fn under the user's mutex so concurrent updates from the
	// same user cannot interleave inside a mode handler.
	WithUser(userID int64, fn func() error) error

	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}
