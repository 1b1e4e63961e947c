package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/staffcircle/backend/errs"
	"github.com/staffcircle/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	user := &models.User{ID: uuid.New(), Username: "hanako"}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	userID, username, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, "hanako", username)
}

func TestTokenWrongSecret(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "hanako"}

	token, err := NewTokenIssuer("secret-a").Issue(user)
	require.NoError(t, err)

	_, _, err = NewTokenIssuer("secret-b").Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidToken))
}

func TestTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	issuer.now = func() time.Time { return time.Now().Add(-2 * TokenTTL) }
	user := &models.User{ID: uuid.New(), Username: "hanako"}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	_, _, err = issuer.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrExpiredToken))
}

func TestTokenGarbage(t *testing.T) {
	_, _, err := NewTokenIssuer("test-secret").Verify("not.a.token")
	require.Error(t, err)
}
