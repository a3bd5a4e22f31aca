package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskflow/helpdesk/internal/domain"
)

func TestTokenRoundTripCarriesSession(t *testing.T) {
	tm := NewTokenManager("secret", 10*time.Minute)
	sess := domain.Session{Username: "alice", Role: domain.RoleEndUser}

	token, err := tm.GenerateToken(sess)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)

	claims, err := tm.ParseToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domain.RoleEndUser, claims.Role)
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	token, err := NewTokenManager("one", time.Minute).GenerateToken(domain.Session{Username: "bob", Role: domain.RoleAgent})
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Minute).ParseToken(token.Token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return issued }
	token, err := tm.GenerateToken(domain.Session{Username: "bob", Role: domain.RoleAgent})
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tm.ParseToken(token.Token)
	assert.Error(t, err)
}
