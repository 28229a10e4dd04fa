package llm

import (
	"context"
	"fmt"
	"strings"
)

// AffirmativeMarker is the token the grading prompt instructs the model to
// open its reply with when the answer is right. Grading accepts the marker
// anywhere in the reply, since models like to preface it.
const AffirmativeMarker = "Correct!"

// QuizQuestion asks the model for a single quiz question on the topic.
// The previous question, when present, is passed along so the model does not
// repeat itself back to back.
func QuizQuestion(ctx context.Context, g Gateway, system, topic, previous string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate one quiz question on the topic: %s.", topic)
	b.WriteString(" Reply with the question text only, no answer and no numbering.")
	if previous != "" {
		fmt.Fprintf(&b, " Do not repeat the previous question: %q.", previous)
	}
	return g.Complete(ctx, system, b.String())
}

// GradeAnswer asks the model to judge the user's answer to a quiz question.
// It returns whether the answer was accepted together with the model's full
// reply, which already contains the explanation to show the user.
func GradeAnswer(ctx context.Context, g Gateway, system, question, answer string) (bool, string, error) {
	prompt := fmt.Sprintf(
		"Question: %s\nUser's answer: %s\n"+
			"If the answer is essentially right, start your reply with %q and briefly confirm. "+
			"If it is wrong, start with \"Incorrect.\" and give the right answer with a short explanation.",
		question, answer, AffirmativeMarker,
	)
	reply, err := g.Complete(ctx, system, prompt)
	if err != nil {
		return false, "", err
	}
	return strings.Contains(reply, AffirmativeMarker), reply, nil
}

// Translate renders text into the target language, returning the translation
// alone without commentary.
func Translate(ctx context.Context, g Gateway, language, text string) (string, error) {
	system := fmt.Sprintf(
		"You are a translator. Translate the user's message into %s. "+
			"Reply with the translation only, no explanations.", language)
	return g.Complete(ctx, system, text)
}
