package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "state.json"))
}

func TestRoundTrip(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.Set(KeyCurrentOrg, "org-1"))

	var got string
	ok, err := store.Get(KeyCurrentOrg, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "org-1", got)
}

func TestGetMissing(t *testing.T) {
	store := tempStore(t)

	var got string
	ok, err := store.Get(KeyCurrentOrg, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.Set(KeyCurrentOrg, "org-1"))
	require.NoError(t, store.Set(KeyAppCache, map[string]string{"a": "b"}))

	require.NoError(t, store.Delete(SessionKeys...))

	var s string
	ok, err := store.Get(KeyCurrentOrg, &s)
	require.NoError(t, err)
	assert.False(t, ok)

	var m map[string]string
	ok, err = store.Get(KeyAppCache, &m)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	require.NoError(t, NewStore(path).Set(KeyCurrentOrg, "org-2"))

	var got string
	ok, err := NewStore(path).Get(KeyCurrentOrg, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "org-2", got)
}
