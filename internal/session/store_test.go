package session_test

import (
	"testing"
	"time"

	"github.com/carbonchain/portal-api/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := session.NewStore(time.Hour, zap.NewNop())

	sess := store.Create()
	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.ID())

	got := store.Get(sess.ID())
	require.NotNil(t, got)
	assert.Equal(t, sess.ID(), got.ID())
}

func TestStore_UnknownID(t *testing.T) {
	store := session.NewStore(time.Hour, zap.NewNop())
	assert.Nil(t, store.Get("nonexistent"))
}

func TestStore_ExpiredSessionIsGone(t *testing.T) {
	store := session.NewStore(10*time.Millisecond, zap.NewNop())
	sess := store.Create()

	time.Sleep(25 * time.Millisecond)

	assert.Nil(t, store.Get(sess.ID()))
	assert.Equal(t, 0, store.Len(), "expired entry is removed on access")
}

func TestStore_GetRefreshesIdleTimer(t *testing.T) {
	store := session.NewStore(50*time.Millisecond, zap.NewNop())
	sess := store.Create()

	// Keep touching the session at intervals shorter than the TTL
	for i := 0; i < 3; i++ {
		time.Sleep(20 * time.Millisecond)
		require.NotNil(t, store.Get(sess.ID()))
	}
}

func TestStore_Delete(t *testing.T) {
	store := session.NewStore(time.Hour, zap.NewNop())
	sess := store.Create()

	store.Delete(sess.ID())
	assert.Nil(t, store.Get(sess.ID()))
}

func TestStore_Sweep(t *testing.T) {
	store := session.NewStore(10*time.Millisecond, zap.NewNop())
	store.Create()
	store.Create()

	time.Sleep(25 * time.Millisecond)
	survivor := store.Create()

	removed := store.Sweep()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, store.Len())
	assert.NotNil(t, store.Get(survivor.ID()))
}

func TestStore_SweepNothingExpired(t *testing.T) {
	store := session.NewStore(time.Hour, zap.NewNop())
	store.Create()

	assert.Equal(t, 0, store.Sweep())
	assert.Equal(t, 1, store.Len())
}
