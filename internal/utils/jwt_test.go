package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewTokenManager("access", "refresh")
	userID := uuid.New()

	pair, err := m.Issue(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.JTI)

	access, err := m.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	refresh, err := m.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)

	assert.Equal(t, pair.JTI, access.ID)
	assert.Equal(t, pair.JTI, refresh.ID)
	got, err := access.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = m.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.VerifyAccess("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenExpires(t *testing.T) {
	m := NewTokenManager("access", "refresh")
	issued := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	pair, err := m.Issue(uuid.New())
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(AccessTokenDuration + time.Minute) }
	_, err = m.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := m.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, RefreshTokenDuration-AccessTokenDuration-time.Minute, claims.TTL(m.now()))
}

func TestOtherSecretRejected(t *testing.T) {
	pair, err := NewTokenManager("a", "b").Issue(uuid.New())
	require.NoError(t, err)
	_, err = NewTokenManager("c", "d").VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
