package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandExtractor_Extract(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "po"), 0o755))

	e := NewCommandExtractor([]string{"sh", "-c", `printf 'msgid "Hello"\nmsgstr ""\n' > po/app.pot`}, 10*time.Second)
	template, err := e.Extract(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "po", "app.pot"), template)

	content, err := os.ReadFile(template)
	require.NoError(t, err)
	assert.Contains(t, string(content), `msgid "Hello"`)
}

func TestCommandExtractor_Failure(t *testing.T) {
	dir := t.TempDir()

	e := NewCommandExtractor([]string{"sh", "-c", "echo broken >&2; exit 3"}, 10*time.Second)
	_, err := e.Extract(context.Background(), dir)
	assert.Error(t, err)
}

func TestCommandExtractor_NoTemplate(t *testing.T) {
	dir := t.TempDir()

	e := NewCommandExtractor([]string{"true"}, 10*time.Second)
	_, err := e.Extract(context.Background(), dir)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestCommandExtractor_Timeout(t *testing.T) {
	dir := t.TempDir()

	e := NewCommandExtractor([]string{"sleep", "5"}, 100*time.Millisecond)
	started := time.Now()
	_, err := e.Extract(context.Background(), dir)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(started), 4*time.Second)
}

func TestCommandExtractor_ToolNotFound(t *testing.T) {
	e := NewCommandExtractor([]string{"happix-no-such-tool"}, time.Second)
	_, err := e.Extract(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestNewCommandExtractor_Defaults(t *testing.T) {
	e := NewCommandExtractor(nil, 0)
	assert.Equal(t, DefaultCommand, e.Command)
	assert.Equal(t, "po", e.WorkDir)
	assert.Equal(t, DefaultTimeout, e.Timeout)
}

func TestGlobCleaner_Clean(t *testing.T) {
	dir := t.TempDir()
	po := filepath.Join(dir, "po")
	require.NoError(t, os.MkdirAll(filepath.Join(po, ".intltool-merge-cache"), 0o755))
	for _, name := range []string{"app.pot", "missing", "fr.po"} {
		require.NoError(t, os.WriteFile(filepath.Join(po, name), []byte("x"), 0o644))
	}

	require.NoError(t, NewGlobCleaner().Clean(dir))

	assert.NoFileExists(t, filepath.Join(po, "app.pot"))
	assert.NoFileExists(t, filepath.Join(po, "missing"))
	assert.NoDirExists(t, filepath.Join(po, ".intltool-merge-cache"))
	assert.FileExists(t, filepath.Join(po, "fr.po"))
}
