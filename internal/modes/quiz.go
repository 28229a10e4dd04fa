package modes

import (
	"context"
	"fmt"

	"github.com/kovalevdev/chatmate/core/telegram/callbacks"
	tghelpers "github.com/kovalevdev/chatmate/core/telegram/helpers"
	"github.com/kovalevdev/chatmate/core/telegram/keyboard"
	"github.com/kovalevdev/chatmate/core/telegram/state"
	"github.com/kovalevdev/chatmate/internal/compose"
	"github.com/kovalevdev/chatmate/internal/llm"
	"github.com/kovalevdev/chatmate/internal/resources"
	"log/slog"

	"github.com/kovalevdev/chatmate/core/logger"

	tele "gopkg.in/telebot.v4"
)

func topicMarkup() *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(resources.Topics)+1)
	for _, t := range resources.Topics {
		rows = append(rows, []keyboard.InlineBtn{{Text: t.Title, Unique: cbQuizTopic, Data: t.ID}})
	}
	rows = append(rows, mainMenuButton())
	return keyboard.InlineButtonsRows(rows...)
}

func quizAnswerMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🏁 End the quiz", Unique: cbEndQuiz}},
	)
}

func quizActionMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "➡️ Next question", Unique: cbQuizMore}},
		[]keyboard.InlineBtn{{Text: "📚 Change topic", Unique: cbChangeTopic}},
		[]keyboard.InlineBtn{{Text: "🏁 End the quiz", Unique: cbEndQuiz}},
	)
}

// enterQuiz starts a brand-new quiz: the previous quiz session is wiped and
// the score starts at zero.
func (d *Deps) enterQuiz(c tele.Context) error {
	userID := c.Sender().ID
	d.FSM.EnterMode(userID, state.StateQuizSelectingTopic)
	d.FSM.SetQuiz(userID, state.QuizSession{})
	text := d.message("quiz_intro", "Let's play! Pick a topic:")
	if path, ok := d.Res.ImagePath("quiz"); ok {
		return compose.SendPhoto(c, path, text, topicMarkup())
	}
	return compose.SendText(c, text, topicMarkup())
}

// selectTopic validates the pressed topic and asks the first question.
// Picking a topic from the change-topic flow keeps the running score.
func (d *Deps) selectTopic(c tele.Context) error {
	topic, ok := resources.TopicByID(callbacks.CallbackPayload(c))
	if !ok {
		text := d.message("quiz_unknown_topic", "That topic isn't on the list. Pick one:")
		return compose.SendText(c, text, topicMarkup())
	}

	userID := c.Sender().ID
	session, _ := d.FSM.Quiz(userID)
	session.Topic = topic.ID
	d.FSM.SetQuiz(userID, session)
	return d.askQuestion(c, session)
}

// askQuestion generates the next question for the session's topic and moves
// the user into the answering state. On failure the user stays where they
// are and can retry.
func (d *Deps) askQuestion(c tele.Context, session state.QuizSession) error {
	topic, ok := resources.TopicByID(session.Topic)
	if !ok {
		// Corrupted session: no usable topic, back to selection.
		d.FSM.SetState(c.Sender().ID, state.StateQuizSelectingTopic)
		text := d.message("quiz_intro", "Let's play! Pick a topic:")
		return compose.SendText(c, text, topicMarkup())
	}

	ctx := tghelpers.BuildContext(c)
	question, err := retryCall(d, c, "quiz.question", func(ctx2 context.Context) (string, error) {
		return llm.QuizQuestion(ctx2, d.LLM, d.Res.Prompt("quiz"), topic.Title, session.PreviousQuestion)
	})
	if err != nil {
		markup := quizActionMarkup()
		if d.FSM.GetState(c.Sender().ID) == state.StateQuizSelectingTopic {
			markup = topicMarkup()
		}
		return d.capabilityReply(c, err, markup)
	}

	userID := c.Sender().ID
	session.CurrentQuestion = question
	d.FSM.SetQuiz(userID, session)
	d.FSM.SetState(userID, state.StateQuizAwaitingAnswer)

	logger.L.LogAttrs(ctx, slog.LevelDebug, "quiz.question",
		slog.Int64("user_id", userID),
		slog.String("topic", topic.ID),
	)
	return compose.SendText(c, question, quizAnswerMarkup())
}

// gradeAnswer scores whatever the user typed against the current question.
// Any text is graded, never validated; the score only ever goes up.
func (d *Deps) gradeAnswer(c tele.Context) error {
	userID := c.Sender().ID
	session, ok := d.FSM.Quiz(userID)
	if !ok || session.CurrentQuestion == "" {
		d.FSM.SetState(userID, state.StateQuizSelectingTopic)
		text := d.message("quiz_intro", "Let's play! Pick a topic:")
		return compose.SendText(c, text, topicMarkup())
	}

	ctx := tghelpers.BuildContext(c)
	type verdict struct {
		correct bool
		reply   string
	}
	v, err := retryCall(d, c, "quiz.grade", func(ctx2 context.Context) (verdict, error) {
		correct, reply, err := llm.GradeAnswer(ctx2, d.LLM, d.Res.Prompt("quiz_grade"), session.CurrentQuestion, c.Text())
		return verdict{correct: correct, reply: reply}, err
	})
	if err != nil {
		return d.capabilityReply(c, err, quizAnswerMarkup())
	}

	if v.correct {
		session.Score++
	}
	session.PreviousQuestion = session.CurrentQuestion
	session.CurrentQuestion = ""
	d.FSM.SetQuiz(userID, session)
	d.FSM.SetState(userID, state.StateQuizAwaitingAction)

	logger.L.LogAttrs(ctx, slog.LevelDebug, "quiz.graded",
		slog.Int64("user_id", userID),
		slog.Bool("correct", v.correct),
		slog.Int("score", session.Score),
	)
	text := fmt.Sprintf("%s\n\nYour score: %d", v.reply, session.Score)
	return compose.SendText(c, text, quizActionMarkup())
}

// nextQuestion continues the quiz on the same topic, biasing the generator
// away from the question just asked.
func (d *Deps) nextQuestion(c tele.Context) error {
	session, ok := d.FSM.Quiz(c.Sender().ID)
	if !ok {
		return d.startHandler(c)
	}
	return d.askQuestion(c, session)
}

// changeTopic re-opens topic selection. The score carries over.
func (d *Deps) changeTopic(c tele.Context) error {
	userID := c.Sender().ID
	d.FSM.SetState(userID, state.StateQuizSelectingTopic)
	text := d.message("quiz_change_topic", "Sure, pick a new topic. Your score stays.")
	return compose.SendText(c, text, topicMarkup())
}

// endQuiz reports the final score, persists the round when history is
// enabled, and returns the user to the root menu.
func (d *Deps) endQuiz(c tele.Context) error {
	userID := c.Sender().ID
	session, _ := d.FSM.Quiz(userID)

	if d.History != nil && session.Topic != "" {
		ctx := tghelpers.BuildContext(c)
		if err := d.History.SaveResult(ctx, userID, session.Topic, session.Score); err != nil {
			logger.L.LogAttrs(ctx, slog.LevelWarn, "quiz.save_failed",
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
	}

	d.FSM.Reset(userID)
	text := fmt.Sprintf(d.message("quiz_done", "Quiz over! Your final score: %d. Come back any time."), session.Score)
	return compose.SendText(c, text, mainMenuMarkup())
}

// quizText handles free text in quiz states that expect a button press.
func (d *Deps) quizText(c tele.Context) error {
	switch d.FSM.GetState(c.Sender().ID) {
	case state.StateQuizSelectingTopic:
		text := d.message("quiz_pick_topic", "Use the buttons to pick a topic:")
		return compose.SendText(c, text, topicMarkup())
	default:
		text := d.message("quiz_pick_action", "Use the buttons to continue:")
		return compose.SendText(c, text, quizActionMarkup())
	}
}
