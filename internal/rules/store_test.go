package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "rules.json"))
	require.NoError(t, s.Load())

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.Content())
}

func TestUpdateBumpsVersion(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "rules.json"))
	require.NoError(t, s.Load())

	by := Updater{UserID: "u1", Username: "organizer"}
	require.NoError(t, s.Update("  Be nice.  ", by))

	doc, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Be nice.", doc.Content, "content should be trimmed")
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, by, doc.UpdatedBy)
	assert.NotEmpty(t, doc.LastUpdated)

	require.NoError(t, s.Update("Be nicer.", by))
	doc, _ = s.Current()
	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, "Be nicer.", s.Content())
}

func TestUpdatePersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")

	s := NewStore(path)
	require.NoError(t, s.Load())
	require.NoError(t, s.Update("No cheating.", Updater{UserID: "u1", Username: "org"}))

	fresh := NewStore(path)
	require.NoError(t, fresh.Load())
	doc, ok := fresh.Current()
	require.True(t, ok)
	assert.Equal(t, "No cheating.", doc.Content)
	assert.Equal(t, 1, doc.Version)

	// Version keeps counting from the persisted document.
	require.NoError(t, fresh.Update("Updated.", Updater{UserID: "u2", Username: "other"}))
	doc, _ = fresh.Current()
	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, "other", doc.UpdatedBy.Username)
}

func TestFileShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	s := NewStore(path)
	require.NoError(t, s.Load())
	require.NoError(t, s.Update("content", Updater{UserID: "u", Username: "n"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"rules"`)
	assert.Contains(t, string(raw), `"updated_by"`)

	// No stray temp files left behind by the atomic write.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
