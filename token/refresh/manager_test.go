package refresh_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/docflow-admin/token/refresh"
	refreshrepofake "github.com/jrsteele09/docflow-admin/token/refresh/repofake"
)

func TestRotateReplacesToken(t *testing.T) {
	m := refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), time.Hour)

	first, err := m.Create("u1")
	require.NoError(t, err)
	require.Len(t, first, 64)

	second, userID, err := m.Rotate(first)
	require.NoError(t, err)
	require.Equal(t, "u1", userID)
	require.NotEqual(t, first, second)

	_, _, err = m.Rotate(first)
	require.ErrorIs(t, err, refresh.ErrTokenNotFound)
}

func TestCreateKeepsOneTokenPerUser(t *testing.T) {
	repo := refreshrepofake.NewFakeRefreshTokenRepo()
	m := refresh.NewManager(repo, time.Hour)

	first, err := m.Create("u1")
	require.NoError(t, err)
	_, err = m.Create("u1")
	require.NoError(t, err)

	_, err = repo.Get(first)
	require.ErrorIs(t, err, refresh.ErrTokenNotFound)

	m.Revoke("u1")
	_, err = repo.GetByUserID("u1")
	require.ErrorIs(t, err, refresh.ErrTokenNotFound)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	refresh.NowTimeFunc = func() time.Time { return start }
	t.Cleanup(func() { refresh.NowTimeFunc = time.Now })

	m := refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), time.Hour)
	tok, err := m.Create("u1")
	require.NoError(t, err)

	refresh.NowTimeFunc = func() time.Time { return start.Add(2 * time.Hour) }
	_, _, err = m.Rotate(tok)
	require.ErrorIs(t, err, refresh.ErrTokenExpired)
}
