package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestAccessToken_RoundTrip(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		tok, err := NewAccessToken(testSecret, alg, 42, 30*time.Minute)
		require.NoError(t, err, alg)
		assert.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), tok.Exp, 2*time.Second)

		sub, err := VerifyAccessToken(testSecret, tok.Token)
		require.NoError(t, err, alg)
		assert.Equal(t, uint64(42), sub)
	}
}

func TestVerifyAccessToken_Failures(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "HS256", 42, time.Minute)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := VerifyAccessToken("other-secret", tok.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := VerifyAccessToken(testSecret, "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)

		_, err = VerifyAccessToken(testSecret, "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := NewAccessToken(testSecret, "HS256", 42, -time.Minute)
		require.NoError(t, err)
		_, err = VerifyAccessToken(testSecret, expired.Token)
		assert.ErrorIs(t, err, ErrInvalidToken, "expiry and bad signature share one error kind")
	})

	t.Run("reset token rejected as access token", func(t *testing.T) {
		reset, err := NewResetToken(testSecret, "HS256", 42, time.Minute)
		require.NoError(t, err)
		_, err = VerifyAccessToken(testSecret, reset.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestResetToken_RoundTrip(t *testing.T) {
	reset, err := NewResetToken(testSecret, "HS256", 7, 15*time.Minute)
	require.NoError(t, err)

	sub, err := VerifyResetToken(testSecret, reset.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), sub)

	// A plain access token cannot drive a password reset.
	access, err := NewAccessToken(testSecret, "HS256", 7, time.Minute)
	require.NoError(t, err)
	_, err = VerifyResetToken(testSecret, access.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
