package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService(t *testing.T) {
	ctx := context.Background()

	newService := func(t *testing.T, ttl time.Duration) SessionService {
		t.Helper()
		store := NewMemorySessionStore(time.Minute)
		t.Cleanup(store.Close)
		return NewSessionService(store, ttl)
	}

	t.Run("CreateAndValidate", func(t *testing.T) {
		svc := newService(t, time.Hour)

		session, err := svc.CreateSession(ctx, 1, "studio")
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Len(t, session.Token, 64, "32 random bytes hex-encoded")
		assert.Equal(t, uint(1), session.AdminID)
		assert.Equal(t, "studio", session.Username)
		assert.True(t, session.ExpiresAt.After(session.IssuedAt))

		validated, err := svc.ValidateSession(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, session.Token, validated.Token)
		assert.Equal(t, "studio", validated.Username)
	})

	t.Run("TokensAreUnique", func(t *testing.T) {
		svc := newService(t, time.Hour)

		first, err := svc.CreateSession(ctx, 1, "studio")
		require.NoError(t, err)
		second, err := svc.CreateSession(ctx, 1, "studio")
		require.NoError(t, err)
		assert.NotEqual(t, first.Token, second.Token)
	})

	t.Run("EmptyTokenNotFound", func(t *testing.T) {
		svc := newService(t, time.Hour)
		_, err := svc.ValidateSession(ctx, "")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("UnknownTokenNotFound", func(t *testing.T) {
		svc := newService(t, time.Hour)
		_, err := svc.ValidateSession(ctx, "deadbeef")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("ExpiredSessionIsEvicted", func(t *testing.T) {
		store := NewMemorySessionStore(time.Minute)
		t.Cleanup(store.Close)
		svc := NewSessionService(store, -time.Second)

		session, err := svc.CreateSession(ctx, 1, "studio")
		require.NoError(t, err)

		_, err = svc.ValidateSession(ctx, session.Token)
		assert.ErrorIs(t, err, ErrSessionExpired)

		// the expired entry is removed on first validation
		_, err = store.Get(ctx, session.Token)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("DestroySession", func(t *testing.T) {
		svc := newService(t, time.Hour)

		session, err := svc.CreateSession(ctx, 1, "studio")
		require.NoError(t, err)
		require.NoError(t, svc.DestroySession(ctx, session.Token))

		_, err = svc.ValidateSession(ctx, session.Token)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("DestroyIsIdempotent", func(t *testing.T) {
		svc := newService(t, time.Hour)
		assert.NoError(t, svc.DestroySession(ctx, "never-issued"))
		assert.NoError(t, svc.DestroySession(ctx, ""))
	})

	t.Run("TTL", func(t *testing.T) {
		svc := newService(t, 12*time.Hour)
		assert.Equal(t, 12*time.Hour, svc.TTL())
	})
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()

	t.Run("PutStoresCopy", func(t *testing.T) {
		store := NewMemorySessionStore(time.Minute)
		t.Cleanup(store.Close)

		session := &AdminSession{Token: "tok", AdminID: 1, Username: "studio"}
		require.NoError(t, store.Put(ctx, session))
		session.Username = "mutated"

		got, err := store.Get(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "studio", got.Username)
	})

	t.Run("CloseIsIdempotent", func(t *testing.T) {
		store := NewMemorySessionStore(time.Minute)
		store.Close()
		store.Close()
	})
}
