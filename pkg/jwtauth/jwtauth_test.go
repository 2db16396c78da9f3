package jwtauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret", "bot-admin", time.Hour)

	token, err := issuer.Issue(7, "maria", true)
	require.NoError(t, err)
	assert.NotEmpty(t, token.ID)

	claims, err := issuer.Parse(token.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "maria", claims.Username)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, token.ID, claims.ID)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := NewIssuer("secret", "bot-admin", time.Hour).Issue(1, "a", false)
	require.NoError(t, err)

	_, err = NewIssuer("other", "bot-admin", time.Hour).Parse(token.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	issuer := NewIssuer("secret", "bot-admin", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.Issue(1, "a", false)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token.Value)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
