package llm

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	reply      string
	err        error
	lastSystem string
	lastPrompt string
}

func (f *fakeGateway) Complete(_ context.Context, system, prompt string) (string, error) {
	f.lastSystem = system
	f.lastPrompt = prompt
	return f.reply, f.err
}

func (f *fakeGateway) Transcribe(context.Context, io.Reader, string) (string, error) {
	return "", nil
}

func (f *fakeGateway) Synthesize(context.Context, string) ([]byte, error) {
	return nil, nil
}

func TestQuizQuestionPrompt(t *testing.T) {
	g := &fakeGateway{reply: "What is a goroutine?"}

	out, err := QuizQuestion(context.Background(), g, "sys", "Programming", "")
	require.NoError(t, err)
	assert.Equal(t, "What is a goroutine?", out)
	assert.Equal(t, "sys", g.lastSystem)
	assert.Contains(t, g.lastPrompt, "Programming")
	assert.NotContains(t, g.lastPrompt, "previous question")
}

func TestQuizQuestionPassesPreviousQuestion(t *testing.T) {
	g := &fakeGateway{reply: "q2"}

	_, err := QuizQuestion(context.Background(), g, "", "Mathematics", "What is 2+2?")
	require.NoError(t, err)
	assert.Contains(t, g.lastPrompt, "What is 2+2?")
	assert.Contains(t, g.lastPrompt, "Do not repeat")
}

func TestGradeAnswerVerdicts(t *testing.T) {
	g := &fakeGateway{reply: AffirmativeMarker + " 4 is right."}
	correct, reply, err := GradeAnswer(context.Background(), g, "", "What is 2+2?", "4")
	require.NoError(t, err)
	assert.True(t, correct)
	assert.Contains(t, reply, "4 is right")

	g.reply = "Incorrect. The answer is 4."
	correct, reply, err = GradeAnswer(context.Background(), g, "", "What is 2+2?", "5")
	require.NoError(t, err)
	assert.False(t, correct)
	assert.Contains(t, reply, "answer is 4")
}

func TestGradeAnswerMarkerAnywhereInReply(t *testing.T) {
	g := &fakeGateway{reply: "Yes, that is Correct! Well done."}
	correct, _, err := GradeAnswer(context.Background(), g, "", "q", "a")
	require.NoError(t, err)
	assert.True(t, correct, "a prefaced verdict still contains the marker")

	g.reply = "Incorrect. The marker never appears capitalized here."
	correct, _, err = GradeAnswer(context.Background(), g, "", "q", "a")
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestGradeAnswerPropagatesError(t *testing.T) {
	g := &fakeGateway{err: errors.New("provider down")}
	_, _, err := GradeAnswer(context.Background(), g, "", "q", "a")
	require.Error(t, err)
}

func TestTranslatePrompt(t *testing.T) {
	g := &fakeGateway{reply: "Hallo"}

	out, err := Translate(context.Background(), g, "German", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hallo", out)
	assert.Contains(t, g.lastSystem, "German")
	assert.Equal(t, "Hello", g.lastPrompt)
}
