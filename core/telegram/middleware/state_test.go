package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

type stubStates map[int64]string

func (s stubStates) GetState(userID int64) string { return s[userID] }

// stubContext implements the handful of tele.Context methods the middleware
// and its logging helpers touch. Anything else panics, which is fine here.
type stubContext struct {
	tele.Context
	sender   *tele.User
	callback *tele.Callback
	store    map[string]interface{}
	responds []*tele.CallbackResponse
}

func (s *stubContext) Sender() *tele.User       { return s.sender }
func (s *stubContext) Callback() *tele.Callback { return s.callback }
func (s *stubContext) Update() tele.Update      { return tele.Update{} }
func (s *stubContext) Chat() *tele.Chat         { return nil }

func (s *stubContext) Get(key string) interface{} { return s.store[key] }

func (s *stubContext) Set(key string, val interface{}) {
	if s.store == nil {
		s.store = make(map[string]interface{})
	}
	s.store[key] = val
}

func (s *stubContext) Respond(resp ...*tele.CallbackResponse) error {
	s.responds = append(s.responds, resp...)
	return nil
}

func TestStateMiddlewarePassesMatchingState(t *testing.T) {
	states := stubStates{1: "quiz/selecting_topic"}
	called := false
	h := State(states, "quiz/selecting_topic")(func(c tele.Context) error {
		called = true
		return nil
	})

	c := &stubContext{sender: &tele.User{ID: 1}}
	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Empty(t, c.responds)
}

func TestStateMiddlewareAcksMismatchedCallback(t *testing.T) {
	states := stubStates{1: "idle"}
	called := false
	h := State(states, "quiz/selecting_topic")(func(c tele.Context) error {
		called = true
		return nil
	})

	c := &stubContext{
		sender:   &tele.User{ID: 1},
		callback: &tele.Callback{Data: "quiz_topic|prog"},
	}
	require.NoError(t, h(c))
	assert.False(t, called, "mismatched state must not reach the handler")
	require.Len(t, c.responds, 1)
	assert.Equal(t, "Unsupported action", c.responds[0].Text)
}

func TestStateMiddlewareDropsMismatchedText(t *testing.T) {
	states := stubStates{1: "idle"}
	h := State(states, "quiz/selecting_topic")(func(c tele.Context) error {
		t.Fatal("handler must not run")
		return nil
	})

	c := &stubContext{sender: &tele.User{ID: 1}}
	require.NoError(t, h(c))
	assert.Empty(t, c.responds)
}
