package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAsset(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadAndLookup(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, filepath.Join(root, "messages"), "main_menu.txt", "Hello!\n")
	writeAsset(t, filepath.Join(root, "prompts"), "quiz.txt", "You are a quiz master.")
	writeAsset(t, filepath.Join(root, "images"), "main_menu.jpg", "jpegbytes")

	p, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "Hello!", p.Message("main_menu"), "loaded text is trimmed")
	assert.Equal(t, "You are a quiz master.", p.Prompt("quiz"))

	path, ok := p.ImagePath("main_menu")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "images", "main_menu.jpg"), path)
}

func TestMissingAssetsAreNonFatal(t *testing.T) {
	p, err := Load(t.TempDir())
	require.NoError(t, err, "empty resource dirs must not fail startup")

	assert.Empty(t, p.Message("nope"))
	assert.Empty(t, p.Prompt("nope"))
	_, ok := p.ImagePath("nope")
	assert.False(t, ok)
}

func TestNonTextFilesIgnored(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, filepath.Join(root, "messages"), "readme.md", "not a template")
	writeAsset(t, filepath.Join(root, "messages"), "hello.txt", "hi")

	p, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "hi", p.Message("hello"))
	assert.Empty(t, p.Message("readme"))
}

func TestCatalogLookups(t *testing.T) {
	persona, ok := PersonaByID("tolkien")
	require.True(t, ok)
	assert.Equal(t, "J.R.R. Tolkien", persona.Name)
	_, ok = PersonaByID("elvis")
	assert.False(t, ok)

	topic, ok := TopicByID("prog")
	require.True(t, ok)
	assert.Equal(t, "Programming", topic.Title)
	_, ok = TopicByID("history")
	assert.False(t, ok)

	lang, ok := LanguageByCode("de")
	require.True(t, ok)
	assert.Equal(t, "German", lang.Name)
	_, ok = LanguageByCode("xx")
	assert.False(t, ok)

	assert.Len(t, Languages, 8)
	assert.Len(t, Personas, 5)
	assert.Len(t, Topics, 3)
}
