package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateLifecycle(t *testing.T) {
	m := NewMemoryManager()

	assert.Equal(t, StateIdle, m.GetState(1))
	assert.False(t, m.HasState(1))
	assert.False(t, m.InProgress(1))

	m.SetState(1, StateGPTAwaitingQuestion)
	assert.Equal(t, StateGPTAwaitingQuestion, m.GetState(1))
	assert.True(t, m.InProgress(1))

	m.ClearState(1)
	assert.Equal(t, StateIdle, m.GetState(1))
	assert.False(t, m.InProgress(1))
}

func TestEnterModeWipesEverything(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(1, StateQuizAwaitingAnswer)
	m.SetQuiz(1, QuizSession{Topic: "math", Score: 3})
	m.SetTalk(1, TalkSession{PersonaID: "tolkien"})

	m.EnterMode(1, StateTranslateSelectingLanguage)

	assert.Equal(t, StateTranslateSelectingLanguage, m.GetState(1))
	_, ok := m.Quiz(1)
	assert.False(t, ok, "quiz session must not survive a mode switch")
	_, ok = m.Talk(1)
	assert.False(t, ok, "talk session must not survive a mode switch")
}

func TestResetIsTotal(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(1, StateVoiceAwaitingAudio)
	m.SetTalk(1, TalkSession{PersonaID: "queen"})
	m.SetTranslate(1, TranslateSession{Language: "de"})

	m.Reset(1)
	m.Reset(1) // idempotent

	assert.Equal(t, StateIdle, m.GetState(1))
	_, ok := m.Talk(1)
	assert.False(t, ok)
	_, ok = m.Translate(1)
	assert.False(t, ok)
}

func TestTalkSessionReplacedNotMerged(t *testing.T) {
	m := NewMemoryManager()

	m.SetTalk(1, TalkSession{PersonaID: "cobain", PersonaPrompt: "prompt a"})
	m.SetTalk(1, TalkSession{PersonaID: "hawking"})

	session, ok := m.Talk(1)
	require.True(t, ok)
	assert.Equal(t, "hawking", session.PersonaID)
	assert.Empty(t, session.PersonaPrompt, "old persona prompt must not leak into the new session")
}

func TestQuizSessionCopySemantics(t *testing.T) {
	m := NewMemoryManager()
	m.SetQuiz(1, QuizSession{Topic: "prog", Score: 2})

	session, ok := m.Quiz(1)
	require.True(t, ok)
	session.Score = 99

	stored, ok := m.Quiz(1)
	require.True(t, ok)
	assert.Equal(t, 2, stored.Score, "getter must return a copy")
}

func TestUsersAreIsolated(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(1, StateQuizAwaitingAnswer)
	m.SetQuiz(1, QuizSession{Topic: "math", Score: 1})

	assert.Equal(t, StateIdle, m.GetState(2))
	_, ok := m.Quiz(2)
	assert.False(t, ok)

	m.Reset(2)
	assert.Equal(t, StateQuizAwaitingAnswer, m.GetState(1))
}

func TestWithUserSerializesSameUser(t *testing.T) {
	m := NewMemoryManager()

	const rounds = 100
	var wg sync.WaitGroup
	counter := 0

	wg.Add(rounds)
	for i := 0; i < rounds; i++ {
		go func() {
			defer wg.Done()
			_ = m.WithUser(1, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, rounds, counter)
}
