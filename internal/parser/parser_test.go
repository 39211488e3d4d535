package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/emrgen/happix/internal/parser/po"
	"github.com/emrgen/happix/internal/parser/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookup(t *testing.T) {
	r := Default()

	p, ok := r.ForFilename("locale/fr.po")
	require.True(t, ok)
	assert.Equal(t, po.MimeType, p.MimeType())

	p, ok = r.ForMimeType(properties.MimeType)
	require.True(t, ok)
	assert.True(t, p.Accept("a.properties"))

	_, ok = r.ForFilename("notes.txt")
	assert.False(t, ok)

	_, ok = r.ForMimeType("application/octet-stream")
	assert.False(t, ok)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fr.po")
	require.NoError(t, os.WriteFile(path, []byte("msgid \"Hello\"\nmsgstr \"Bonjour\"\n"), 0o644))

	set, err := ParseFile(po.New(), path)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, "Bonjour", set.Entries[0].Translation)

	_, err = ParseFile(po.New(), filepath.Join(t.TempDir(), "missing.po"))
	assert.Error(t, err)
}
