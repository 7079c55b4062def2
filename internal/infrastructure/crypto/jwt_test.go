package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTSigner_SignAndVerify(t *testing.T) {
	s := NewJWTSigner("secret", time.Hour)

	token, expiresAt, err := s.Sign(map[string]any{
		"username": "alice",
		"roles":    []string{"admin"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, []interface{}{"admin"}, claims["roles"])
	assert.NotEmpty(t, claims["jti"])
	assert.Equal(t, float64(expiresAt.Unix()), claims["exp"])
}

func TestJWTSigner_UniqueTokenIDs(t *testing.T) {
	s := NewJWTSigner("secret", time.Hour)

	a, _, err := s.Sign(map[string]any{"username": "alice"})
	require.NoError(t, err)
	b, _, err := s.Sign(map[string]any{"username": "alice"})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestJWTSigner_DoesNotMutateInput(t *testing.T) {
	s := NewJWTSigner("secret", time.Hour)
	in := map[string]any{"username": "alice"}

	_, _, err := s.Sign(in)
	require.NoError(t, err)
	assert.Len(t, in, 1)
}

func TestJWTSigner_WrongSecret(t *testing.T) {
	token, _, err := NewJWTSigner("secret", time.Hour).Sign(map[string]any{"username": "alice"})
	require.NoError(t, err)

	_, err = NewJWTSigner("other", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTSigner_Expired(t *testing.T) {
	s := NewJWTSigner("secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := s.Sign(map[string]any{"username": "alice"})
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTSigner_RejectsOtherAlgorithms(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"username": "mallory",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTSigner("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTSigner_RequiresExpiry(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": "alice"})
	token, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTSigner("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTSigner_DefaultTTL(t *testing.T) {
	assert.Equal(t, defaultTokenTTL, NewJWTSigner("secret", 0).ttl)
}
