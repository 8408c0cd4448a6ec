package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-codec-tests-only"

func newTestCodec() *Codec {
	return NewCodec(testSecret, 15*time.Minute, 7*24*time.Hour)
}

func TestCodec_MintAndSubject(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.Mint("farmer@example.com", TokenAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := codec.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "farmer@example.com", subject)
}

func TestCodec_MintRefreshHasLongerExpiry(t *testing.T) {
	codec := newTestCodec()

	access, err := codec.Mint("farmer@example.com", TokenAccess)
	require.NoError(t, err)
	refresh, err := codec.Mint("farmer@example.com", TokenRefresh)
	require.NoError(t, err)

	accessClaims := decodeClaims(t, access)
	refreshClaims := decodeClaims(t, refresh)
	assert.True(t, refreshClaims.ExpiresAt.After(accessClaims.ExpiresAt.Time))
}

func TestCodec_ValidateFreshToken(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.Mint("farmer@example.com", TokenAccess)
	require.NoError(t, err)

	assert.NoError(t, codec.Validate(token))
}

func TestCodec_ExpiredToken(t *testing.T) {
	// A negative expiry mints a token that is already past its deadline.
	expired := NewCodec(testSecret, -time.Second, -time.Second)

	token, err := expired.Mint("farmer@example.com", TokenAccess)
	require.NoError(t, err)

	err = newTestCodec().Validate(token)
	require.Error(t, err)
	assert.Equal(t, KindExpired, KindOf(err))

	_, err = newTestCodec().Subject(token)
	require.Error(t, err)
	assert.Equal(t, KindExpired, KindOf(err))
}

func TestCodec_WrongSecretIsSignatureInvalid(t *testing.T) {
	minter := NewCodec("one-signing-secret-value-aaaaaaa", time.Minute, time.Hour)
	verifier := NewCodec("another-signing-secret-value-bbb", time.Minute, time.Hour)

	token, err := minter.Mint("farmer@example.com", TokenAccess)
	require.NoError(t, err)

	err = verifier.Validate(token)
	require.Error(t, err)
	assert.Equal(t, KindSignatureInvalid, KindOf(err))
}

func TestCodec_GarbageIsMalformed(t *testing.T) {
	codec := newTestCodec()

	for _, garbage := range []string{"not-a-token", "a.b", "a.b.c.d", ""} {
		err := codec.Validate(garbage)
		require.Error(t, err, "input %q", garbage)
		assert.Equal(t, KindMalformed, KindOf(err), "input %q", garbage)
	}
}

func TestCodec_NoneAlgorithmIsUnsupported(t *testing.T) {
	codec := newTestCodec()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "farmer@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	err = codec.Validate(token)
	require.Error(t, err)
	assert.Equal(t, KindUnsupported, KindOf(err))
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &Error{Kind: KindOther, Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "token other")
}

func TestKindOf_UnrelatedError(t *testing.T) {
	assert.Equal(t, KindOther, KindOf(errors.New("database down")))
}

// decodeClaims parses a token without verifying it, for inspecting what Mint embedded.
func decodeClaims(t *testing.T, tokenString string) *jwt.RegisteredClaims {
	t.Helper()
	claims := &jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	require.NoError(t, err)
	return claims
}
