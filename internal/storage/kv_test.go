package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursegate/pkg/platform/sentinel"
)

func TestFileKV(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		kv, err := NewFileKV(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, kv.Put("user", []byte(`{"name":"Jane"}`)))
		got, err := kv.Get("user")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"name":"Jane"}`), got)
	})

	t.Run("missing key is ErrNotFound", func(t *testing.T) {
		kv, err := NewFileKV(t.TempDir())
		require.NoError(t, err)

		_, err = kv.Get("user")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("put replaces the previous value", func(t *testing.T) {
		kv, err := NewFileKV(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, kv.Put("user", []byte("old")))
		require.NoError(t, kv.Put("user", []byte("new")))
		got, err := kv.Get("user")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), got)
	})

	t.Run("delete removes the key and tolerates absence", func(t *testing.T) {
		kv, err := NewFileKV(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, kv.Put("user", []byte("value")))
		require.NoError(t, kv.Delete("user"))
		_, err = kv.Get("user")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		require.NoError(t, kv.Delete("user"))
	})

	t.Run("unusable directory is ErrUnavailable", func(t *testing.T) {
		// A regular file where the directory should be.
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocked")
		kv, err := NewFileKV(blocker)
		require.NoError(t, err) // MkdirAll succeeds, dir created

		// Now make the path a file and try again.
		require.NoError(t, kv.Put("probe", []byte("x")))
		_, err = NewFileKV(filepath.Join(blocker, "probe.json"))
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()

	_, err := kv.Get("user")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, kv.Put("user", []byte("value")))
	got, err := kv.Get("user")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	// Mutating the returned slice must not affect the stored value.
	got[0] = 'X'
	again, err := kv.Get("user")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)

	require.NoError(t, kv.Delete("user"))
	_, err = kv.Get("user")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
