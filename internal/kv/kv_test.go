// ABOUTME: Conformance tests run against every KV driver
// ABOUTME: Covers get/set/delete round trips, absent keys, and overwrite semantics

package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drivers returns a fresh instance of each KV driver backed by a temp dir.
func drivers(t *testing.T) map[string]KV {
	t.Helper()
	tmpDir := t.TempDir()

	bolt, err := OpenBolt(filepath.Join(tmpDir, "kv.db"))
	require.NoError(t, err)

	sqlite, err := OpenSQLite(filepath.Join(tmpDir, "kv.sqlite"))
	require.NoError(t, err)

	all := map[string]KV{
		"bolt":   bolt,
		"sqlite": sqlite,
		"memory": NewMemory(),
	}
	t.Cleanup(func() {
		for _, store := range all {
			store.Close()
		}
	})
	return all
}

func TestKV_SetGet(t *testing.T) {
	ctx := context.Background()
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "greeting", []byte("hello")))

			value, found, err := store.Get(ctx, "greeting")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []byte("hello"), value)
		})
	}
}

func TestKV_GetAbsentKey(t *testing.T) {
	ctx := context.Background()
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			value, found, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, found)
			assert.Nil(t, value)
		})
	}
}

func TestKV_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "k", []byte("first")))
			require.NoError(t, store.Set(ctx, "k", []byte("second")))

			value, found, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []byte("second"), value)
		})
	}
}

func TestKV_Delete(t *testing.T) {
	ctx := context.Background()
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "k", []byte("v")))
			require.NoError(t, store.Delete(ctx, "k"))

			_, found, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, found)

			// Deleting an absent key is not an error
			require.NoError(t, store.Delete(ctx, "k"))
		})
	}
}

func TestKV_BoltPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	store, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Close())

	reopened, err := OpenBolt(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), value)
}

func TestKV_SQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.sqlite")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), value)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("postgres", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kv driver")
}

func TestOpen_SelectsDriver(t *testing.T) {
	store, err := Open(DriverMemory, "")
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*Memory)
	assert.True(t, ok)
}
