package modes

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/kovalevdev/chatmate/core/config"
	"github.com/kovalevdev/chatmate/core/guard"
	tg "github.com/kovalevdev/chatmate/core/telegram"
	"github.com/kovalevdev/chatmate/core/telegram/state"
	"github.com/kovalevdev/chatmate/internal/resources"

	tele "gopkg.in/telebot.v4"
)

// fakeGateway replays scripted completions and records every prompt so tests
// can assert on what the modes actually asked for.
type fakeGateway struct {
	replies []string
	systems []string
	prompts []string
}

func (g *fakeGateway) Complete(_ context.Context, system, prompt string) (string, error) {
	g.systems = append(g.systems, system)
	g.prompts = append(g.prompts, prompt)
	if len(g.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	reply := g.replies[0]
	g.replies = g.replies[1:]
	return reply, nil
}

func (g *fakeGateway) Transcribe(context.Context, io.Reader, string) (string, error) {
	return "", errors.New("not scripted")
}

func (g *fakeGateway) Synthesize(context.Context, string) ([]byte, error) {
	return nil, errors.New("not scripted")
}

type sentMessage struct {
	what interface{}
	opts []interface{}
}

// fakeContext implements the subset of tele.Context the mode handlers and
// their send helpers touch. Unimplemented methods panic, which is fine here.
type fakeContext struct {
	tele.Context
	sender   *tele.User
	text     string
	callback *tele.Callback
	message  *tele.Message
	store    map[string]interface{}
	sent     []sentMessage
}

func (f *fakeContext) Sender() *tele.User       { return f.sender }
func (f *fakeContext) Text() string             { return f.text }
func (f *fakeContext) Callback() *tele.Callback { return f.callback }
func (f *fakeContext) Message() *tele.Message   { return f.message }
func (f *fakeContext) Update() tele.Update      { return tele.Update{} }
func (f *fakeContext) Chat() *tele.Chat         { return nil }

func (f *fakeContext) Get(key string) interface{} { return f.store[key] }

func (f *fakeContext) Set(key string, val interface{}) {
	if f.store == nil {
		f.store = make(map[string]interface{})
	}
	f.store[key] = val
}

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	f.sent = append(f.sent, sentMessage{what: what, opts: opts})
	return nil
}

func (f *fakeContext) lastSent(t *testing.T) sentMessage {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func (f *fakeContext) lastText(t *testing.T) string {
	t.Helper()
	text, ok := f.lastSent(t).what.(string)
	require.True(t, ok, "expected a text send, got %T", f.lastSent(t).what)
	return text
}

func testDeps(t *testing.T, gw *fakeGateway) *Deps {
	t.Helper()
	cfg := &coreconfig.Config{}
	cfg.Modes.RetryAttempts = 1
	cfg.Modes.RetryDelayMS = 1
	cfg.Modes.MaxVoiceSeconds = 30

	res, err := resources.Load(t.TempDir())
	require.NoError(t, err)

	d := &Deps{
		Cfg: cfg,
		FSM: state.NewMemoryManager(),
		Reg: tg.NewRegistry(),
		LLM: gw,
		Res: res,
	}
	Register(d)
	return d
}

func TestOnLimitedNamesBudgetAndKeepsKeyboard(t *testing.T) {
	d := testDeps(t, &fakeGateway{})
	c := &fakeContext{sender: &tele.User{ID: 9}}

	err := d.OnLimited(c, &guard.LimitError{Max: 5, Window: time.Minute})
	require.NoError(t, err)

	text := c.lastText(t)
	assert.Contains(t, text, "5")
	assert.Contains(t, text, "1m0s")

	opts := c.lastSent(t).opts
	require.NotEmpty(t, opts, "rejection must carry an escape-hatch keyboard")
	sendOpts, ok := opts[0].(*tele.SendOptions)
	require.True(t, ok)
	assert.NotNil(t, sendOpts.ReplyMarkup)
}

func TestStartResetIsTotalAndIdempotent(t *testing.T) {
	d := testDeps(t, &fakeGateway{})
	user := &tele.User{ID: 11}
	d.FSM.SetState(user.ID, state.StateQuizAwaitingAnswer)
	d.FSM.SetQuiz(user.ID, state.QuizSession{Topic: "prog", Score: 2})

	for i := 0; i < 2; i++ {
		c := &fakeContext{sender: user}
		require.NoError(t, d.startHandler(c))
		assert.False(t, d.FSM.InProgress(user.ID))
		_, ok := d.FSM.Quiz(user.ID)
		assert.False(t, ok)
	}
}
