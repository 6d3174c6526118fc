package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	in := map[string]int{"alice": 3, "bob": 5}
	require.NoError(t, store.Save("counts", in))

	out := map[string]int{}
	require.NoError(t, store.Load("counts", &out))
	assert.Equal(t, in, out)
}

func TestLoadMissingFileLeavesValueUntouched(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	out := map[string]int{"seed": 1}
	require.NoError(t, store.Load("nothing", &out))
	assert.Equal(t, map[string]int{"seed": 1}, out)
}

func TestLoadCorruptFileLeavesValueUntouched(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))

	out := map[string]int{}
	require.NoError(t, store.Load("broken", &out))
	assert.Empty(t, out)
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("counts", map[string]int{"alice": 1}))
	require.NoError(t, store.Save("counts", map[string]int{"alice": 2}))

	out := map[string]int{}
	require.NoError(t, store.Load("counts", &out))
	assert.Equal(t, map[string]int{"alice": 2}, out)
}

func TestOpenCreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	_, err := Open(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
