package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("test-jwt-secret")
	userID := uuid.NewString()
	exp := time.Now().Add(15 * time.Minute).UTC()

	token, err := SignAccessToken(userID, "SELLER", exp, secret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "SELLER", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	secret := []byte("test-jwt-secret")

	expired, err := SignAccessToken("u", "USER", time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(expired, secret)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))

	valid, err := SignAccessToken("u", "USER", time.Now().Add(time.Minute), secret)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(valid, []byte("other-secret"))
	assert.Error(t, err)

	_, err = AccessClaimsFromToken("not-a-jwt", secret)
	assert.Error(t, err)
}
