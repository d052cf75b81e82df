package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionFixture(t *testing.T) (*SessionService, *fakeRepoManager) {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := newFakeRepoManager()
	return NewSessionService(db, m, time.Hour), m
}

func TestSessionService_OpenActiveClose(t *testing.T) {
	clock := withClock(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	s, m := newSessionFixture(t)
	ctx := context.Background()

	require.NoError(t, s.Open(ctx, "sid", "a@x.com"))
	assert.Equal(t, clock.Add(time.Hour), m.sessions.byID["sid"].ExpiresAt)

	ok, err := s.Active(ctx, "sid", "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Active(ctx, "sid", "b@x.com")
	require.NoError(t, err)
	assert.False(t, ok, "a session belongs to one email")

	require.NoError(t, s.Close(ctx, "sid"))
	ok, err = s.Active(ctx, "sid", "a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Close(ctx, ""))
}

func TestSessionService_Expiry(t *testing.T) {
	clock := withClock(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	s, m := newSessionFixture(t)
	ctx := context.Background()

	require.NoError(t, s.Open(ctx, "old", "a@x.com"))
	*clock = clock.Add(time.Hour)

	ok, err := s.Active(ctx, "old", "a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotContains(t, m.sessions.byID, "old", "expired login is removed")

	require.NoError(t, s.Open(ctx, "a", "a@x.com"))
	*clock = clock.Add(2 * time.Hour)
	require.NoError(t, s.Open(ctx, "b", "a@x.com"))
	assert.NotContains(t, m.sessions.byID, "a", "opening a login sweeps expired ones")
	assert.Contains(t, m.sessions.byID, "b")
}

func TestSessionService_Errors(t *testing.T) {
	withClock(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	t.Run("missing id", func(t *testing.T) {
		s, _ := newSessionFixture(t)
		assert.ErrorIs(t, s.Open(ctx, "", "a@x.com"), common.ErrorValidation)
	})

	t.Run("sweep fails", func(t *testing.T) {
		s, m := newSessionFixture(t)
		m.sessions.sweepErr = errBoom{}
		assert.ErrorIs(t, s.Open(ctx, "sid", "a@x.com"), errBoom{})
		assert.Empty(t, m.sessions.byID)
	})

	t.Run("lookup fails", func(t *testing.T) {
		s, m := newSessionFixture(t)
		m.sessions.findErr = errBoom{}
		ok, err := s.Active(ctx, "sid", "a@x.com")
		assert.ErrorIs(t, err, errBoom{})
		assert.False(t, ok)
	})
}
