package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovalevdev/chatmate/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

func TestTranslateFlow(t *testing.T) {
	gw := &fakeGateway{replies: []string{"hola"}}
	d := testDeps(t, gw)
	user := &tele.User{ID: 3}

	require.NoError(t, d.enterTranslate(&fakeContext{sender: user}))
	assert.Equal(t, state.StateTranslateSelectingLanguage, d.FSM.GetState(user.ID))

	pick := &fakeContext{sender: user, callback: &tele.Callback{Data: "lang|es"}}
	require.NoError(t, d.selectLanguage(pick))
	assert.Equal(t, state.StateTranslateAwaitingText, d.FSM.GetState(user.ID))
	assert.Contains(t, pick.lastText(t), "Spanish")

	c := &fakeContext{sender: user, text: "hello"}
	require.NoError(t, d.translateText(c))
	assert.Equal(t, "hola", c.lastText(t))
	assert.Contains(t, gw.systems[0], "Spanish")
	assert.Equal(t, state.StateTranslateAwaitingText, d.FSM.GetState(user.ID),
		"translating must not leave the mode")
}

func TestTranslateCorruptedSessionReprompts(t *testing.T) {
	gw := &fakeGateway{}
	d := testDeps(t, gw)
	user := &tele.User{ID: 4}
	// Awaiting text, but no language was ever stored.
	d.FSM.SetState(user.ID, state.StateTranslateAwaitingText)

	c := &fakeContext{sender: user, text: "hello"}
	require.NoError(t, d.translateText(c))
	assert.Equal(t, state.StateTranslateSelectingLanguage, d.FSM.GetState(user.ID))
	assert.Empty(t, gw.prompts, "no translation may be attempted without a language")
	require.NotEmpty(t, c.sent)
}

func TestTranslateUnknownLanguageReprompts(t *testing.T) {
	d := testDeps(t, &fakeGateway{})
	user := &tele.User{ID: 5}
	require.NoError(t, d.enterTranslate(&fakeContext{sender: user}))

	pick := &fakeContext{sender: user, callback: &tele.Callback{Data: "lang|xx"}}
	require.NoError(t, d.selectLanguage(pick))
	assert.Equal(t, state.StateTranslateSelectingLanguage, d.FSM.GetState(user.ID))
	_, ok := d.FSM.Translate(user.ID)
	assert.False(t, ok)
}
