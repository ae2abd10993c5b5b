// ABOUTME: Tests for session login/logout/switch/refresh over an in-memory store
// ABOUTME: Verifies the persisted session survives a manager restart

package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/math-adventure/internal/kv"
	"github.com/2389/math-adventure/internal/store"
)

func setupManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()

	s := store.New(kv.NewMemory())
	require.NoError(t, s.Initialize(context.Background()))
	t.Cleanup(func() { s.Close() })

	return New(s), s
}

func TestManager_RegisterActivatesUser(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	user, err := m.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, user.ID, m.CurrentUser().ID)
}

func TestManager_LoginLogout(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	_, err := m.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))
	assert.False(t, m.IsAuthenticated())

	ok, err := m.Login(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, m.IsAuthenticated())

	ok, err = m.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", m.CurrentUser().Username)
}

func TestManager_LoadRestoresPersistedSession(t *testing.T) {
	m, s := setupManager(t)
	ctx := context.Background()

	user, err := m.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	// A new manager over the same store picks the session back up
	restored := New(s)
	restored.Load(ctx)
	require.True(t, restored.IsAuthenticated())
	assert.Equal(t, user.ID, restored.CurrentUser().ID)
}

func TestManager_SwitchUser(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	_, err := m.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	bob, err := m.Register(ctx, "bob", "secret")
	require.NoError(t, err)

	require.NoError(t, m.SwitchUser(ctx, bob.ID))
	assert.Equal(t, "bob", m.CurrentUser().Username)

	// Unknown ids leave the session unchanged
	require.NoError(t, m.SwitchUser(ctx, "ghost"))
	assert.Equal(t, "bob", m.CurrentUser().Username)
}

func TestManager_RefreshSeesStoreMutations(t *testing.T) {
	m, s := setupManager(t)
	ctx := context.Background()

	user, err := m.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	require.NoError(t, s.AddGems(ctx, user.ID, 42))
	assert.Zero(t, m.CurrentUser().TotalGems, "session copy is stale before refresh")

	m.Refresh(ctx)
	assert.Equal(t, 42, m.CurrentUser().TotalGems)
}
