package compose

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateShortInputUnchanged(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", CaptionLimit))
	assert.Equal(t, "", Truncate("", CaptionLimit))

	exact := strings.Repeat("a", CaptionLimit)
	assert.Equal(t, exact, Truncate(exact, CaptionLimit))
}

func TestTruncateLongInput(t *testing.T) {
	long := strings.Repeat("a", 1100)
	out := Truncate(long, CaptionLimit)

	assert.True(t, strings.HasSuffix(out, "..."))
	got := utf8.RuneCountInString(out)
	assert.GreaterOrEqual(t, got, 1023)
	assert.LessOrEqual(t, got, 1024)
}

func TestTruncateIsRuneSafe(t *testing.T) {
	long := strings.Repeat("ф", 1100)
	out := Truncate(long, CaptionLimit)

	assert.True(t, utf8.ValidString(out))
	assert.LessOrEqual(t, utf8.RuneCountInString(out), CaptionLimit)
}

func TestTruncateDegenerateLimits(t *testing.T) {
	assert.Equal(t, "", Truncate("anything", 0))
	assert.Equal(t, "...", Truncate("anything", 3))
}
