package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadEmptyFolderIsNoContent(t *testing.T) {
	pages, err := Load(t.TempDir(), []string{".pdf"})
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestLoadMissingRootFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"), []string{".pdf"})
	assert.Error(t, err)
}

func TestLoadSkipsUnparsableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.pdf", "this is not a pdf")

	pages, err := Load(dir, []string{".pdf"})
	require.NoError(t, err, "a corrupt file is skipped, not fatal")
	assert.Empty(t, pages)
}

func TestLoadTextFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "alpha beta gamma")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	writeFile(t, filepath.Join(dir, "sub"), "deep.txt", "delta")

	pages, err := Load(dir, []string{".txt"})
	require.NoError(t, err)
	require.Len(t, pages, 2)

	bySource := map[string]string{}
	for _, p := range pages {
		assert.Equal(t, 1, p.Page)
		bySource[p.Source] = p.Text
	}
	assert.Equal(t, "alpha beta gamma", bySource["notes.txt"])
	assert.Equal(t, "delta", bySource["deep.txt"])
}

func TestLoadIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.md", "not indexed")
	writeFile(t, dir, "notes.txt", "indexed")

	pages, err := Load(dir, []string{".txt"})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "notes.txt", pages[0].Source)
}

func TestLoadSkipsEmptyText(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blank.txt", "   \n\t")

	pages, err := Load(dir, []string{".txt"})
	require.NoError(t, err)
	assert.Empty(t, pages)
}
