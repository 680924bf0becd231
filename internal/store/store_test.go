package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kv interface {
	Persist(key string, value []byte) error
	Load(key string) ([]byte, bool, error)
}

func stores(t *testing.T) map[string]kv {
	f, err := OpenFile(filepath.Join(t.TempDir(), "data"), nil)
	require.NoError(t, err)
	return map[string]kv{"file": f, "memory": NewMemory()}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Load("document")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Persist("document", []byte("v1")))
			require.NoError(t, s.Persist("document", []byte("v2")))
			v, ok, err := s.Load("document")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, []byte("v2"), v)
		})
	}
}

func TestStoreRejectsBadKeys(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../etc", "a/b", "Upper"} {
				assert.ErrorIs(t, s.Persist(key, nil), ErrBadKey)
				_, _, err := s.Load(key)
				assert.ErrorIs(t, err, ErrBadKey)
			}
		})
	}
}

func TestFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f, err := OpenFile(dir, nil)
	require.NoError(t, err)
	require.NoError(t, f.Persist("settings", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "settings.slot", entries[0].Name())
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	v := []byte("abc")
	require.NoError(t, m.Persist("k", v))
	v[0] = 'x'
	got, _, _ := m.Load("k")
	assert.Equal(t, []byte("abc"), got)
}
