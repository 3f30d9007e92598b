package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "state"))

	type positions map[string][2]int
	require.NoError(t, s.Put(KeyIconPositions, positions{"a": {10, 10}}))

	var got positions
	ok, err := s.Get(KeyIconPositions, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, [2]int{10, 10}, got["a"])

	require.NoError(t, s.Delete(KeyIconPositions))
	ok, err = s.Get(KeyIconPositions, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_GetMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	var v map[string]any
	ok, err := s.Get("nothing", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_GetCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeySettings+".json"), []byte("{"), 0644))

	s := NewStore(dir)
	var v Settings
	_, err := s.Get(KeySettings, &v)
	assert.Error(t, err)
}

func TestStore_RejectsBadKeys(t *testing.T) {
	s := NewStore(t.TempDir())
	for _, key := range []string{"", "../etc", "a/b", `a\b`, ".."} {
		assert.Error(t, s.Put(key, 1), "key %q", key)
	}
}

func TestStore_DeleteMissingIsNoop(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.NoError(t, s.Delete("ghost"))
}

func TestStore_Documents(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.SaveDocument("notes.txt", "hello"))

	content, ok, err := s.LoadDocument("notes.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", content)
}

func TestSettings_DefaultsWhenUnsaved(t *testing.T) {
	s := NewStore(t.TempDir())
	got, err := s.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), got)
}

func TestSettings_SaveValidates(t *testing.T) {
	s := NewStore(t.TempDir())

	bad := DefaultSettings()
	bad.Theme = "neon"
	assert.Error(t, s.SaveSettings(bad))

	good := DefaultSettings().Merge(Settings{Theme: "dark", TaskbarPosition: "left"})
	require.NoError(t, s.SaveSettings(good))

	got, err := s.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, "left", got.TaskbarPosition)
	assert.Equal(t, "blue", got.AccentColor)
}

func TestSettings_PartialFileFilledFromDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeySettings+".json"), []byte(`{"theme":"dark"}`), 0644))

	got, err := NewStore(dir).LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, "bottom", got.TaskbarPosition)
}
