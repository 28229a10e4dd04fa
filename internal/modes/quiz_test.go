package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovalevdev/chatmate/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

func TestQuizFullRound(t *testing.T) {
	gw := &fakeGateway{replies: []string{
		"What is a pointer?",
		"Correct! A pointer holds a memory address.",
		"What is a slice?",
	}}
	d := testDeps(t, gw)
	user := &tele.User{ID: 7}

	require.NoError(t, d.enterQuiz(&fakeContext{sender: user}))
	assert.Equal(t, state.StateQuizSelectingTopic, d.FSM.GetState(user.ID))

	pick := &fakeContext{sender: user, callback: &tele.Callback{Data: "quiz_topic|prog"}}
	require.NoError(t, d.selectTopic(pick))
	assert.Equal(t, state.StateQuizAwaitingAnswer, d.FSM.GetState(user.ID))

	session, ok := d.FSM.Quiz(user.ID)
	require.True(t, ok)
	assert.Equal(t, "prog", session.Topic)
	assert.Equal(t, "What is a pointer?", session.CurrentQuestion)
	assert.Equal(t, "What is a pointer?", pick.lastText(t))

	answer := &fakeContext{sender: user, text: "an address"}
	require.NoError(t, d.gradeAnswer(answer))
	assert.Equal(t, state.StateQuizAwaitingAction, d.FSM.GetState(user.ID))
	assert.Contains(t, answer.lastText(t), "Your score: 1")

	session, _ = d.FSM.Quiz(user.ID)
	assert.Equal(t, 1, session.Score)
	assert.Equal(t, "What is a pointer?", session.PreviousQuestion)
	assert.Empty(t, session.CurrentQuestion)

	next := &fakeContext{sender: user}
	require.NoError(t, d.nextQuestion(next))
	assert.Equal(t, state.StateQuizAwaitingAnswer, d.FSM.GetState(user.ID))
	assert.Contains(t, gw.prompts[len(gw.prompts)-1], "What is a pointer?",
		"next question must be biased away from the one just asked")

	end := &fakeContext{sender: user}
	require.NoError(t, d.endQuiz(end))
	assert.False(t, d.FSM.InProgress(user.ID))
	_, ok = d.FSM.Quiz(user.ID)
	assert.False(t, ok)
	assert.Contains(t, end.lastText(t), "1")
}

func TestQuizChangeTopicKeepsScore(t *testing.T) {
	gw := &fakeGateway{replies: []string{"q1", "Correct! yes."}}
	d := testDeps(t, gw)
	user := &tele.User{ID: 8}

	require.NoError(t, d.enterQuiz(&fakeContext{sender: user}))
	pick := &fakeContext{sender: user, callback: &tele.Callback{Data: "quiz_topic|math"}}
	require.NoError(t, d.selectTopic(pick))
	require.NoError(t, d.gradeAnswer(&fakeContext{sender: user, text: "42"}))

	require.NoError(t, d.changeTopic(&fakeContext{sender: user}))
	assert.Equal(t, state.StateQuizSelectingTopic, d.FSM.GetState(user.ID))
	session, ok := d.FSM.Quiz(user.ID)
	require.True(t, ok)
	assert.Equal(t, 1, session.Score)
}

func TestQuizFreshEntryResetsScore(t *testing.T) {
	d := testDeps(t, &fakeGateway{})
	user := &tele.User{ID: 9}
	d.FSM.SetQuiz(user.ID, state.QuizSession{Topic: "prog", Score: 4})

	require.NoError(t, d.enterQuiz(&fakeContext{sender: user}))
	session, ok := d.FSM.Quiz(user.ID)
	require.True(t, ok)
	assert.Zero(t, session.Score)
	assert.Empty(t, session.Topic)
}

func TestQuizUnknownTopicRepromptsWithoutTransition(t *testing.T) {
	gw := &fakeGateway{}
	d := testDeps(t, gw)
	user := &tele.User{ID: 10}
	require.NoError(t, d.enterQuiz(&fakeContext{sender: user}))

	pick := &fakeContext{sender: user, callback: &tele.Callback{Data: "quiz_topic|history"}}
	require.NoError(t, d.selectTopic(pick))
	assert.Equal(t, state.StateQuizSelectingTopic, d.FSM.GetState(user.ID))
	assert.Empty(t, gw.prompts, "no question may be generated for an unknown topic")
	require.NotEmpty(t, pick.sent)
}

func TestQuizCorruptedSessionFallsBackToTopicSelection(t *testing.T) {
	gw := &fakeGateway{}
	d := testDeps(t, gw)
	user := &tele.User{ID: 12}
	d.FSM.SetState(user.ID, state.StateQuizAwaitingAnswer)

	c := &fakeContext{sender: user, text: "an answer"}
	require.NoError(t, d.gradeAnswer(c))
	assert.Equal(t, state.StateQuizSelectingTopic, d.FSM.GetState(user.ID))
	assert.Empty(t, gw.prompts)
}
