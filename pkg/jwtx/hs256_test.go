package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHS256RoundTrip(t *testing.T) {
	h := NewHS256([]byte("test-secret"), "bartab-auth", []string{"bartab"})

	claims := NewAccessClaims(
		"user-1",
		[]string{"referral:read", "referral:write"},
		time.Minute,
		"bartab-auth",
		[]string{"bartab"},
		"alice",
		time.Now().UTC(),
	)

	token, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, []string{"referral:read", "referral:write"}, got.Scopes)
}

func TestHS256WrongSecret(t *testing.T) {
	signer := NewHS256([]byte("secret-a"), "", nil)
	verifier := NewHS256([]byte("secret-b"), "", nil)

	token, err := signer.Sign(NewAccessClaims("user-1", nil, time.Minute, "", nil, "", time.Now().UTC()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestHS256Expired(t *testing.T) {
	h := NewHS256([]byte("test-secret"), "", nil)

	claims := NewAccessClaims("user-1", nil, time.Minute, "", nil, "", time.Now().UTC().Add(-time.Hour))
	token, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestHS256IssuerAndAudience(t *testing.T) {
	h := NewHS256([]byte("test-secret"), "bartab-auth", []string{"bartab"})

	badIssuer := NewAccessClaims("user-1", nil, time.Minute, "someone-else", []string{"bartab"}, "", time.Now().UTC())
	token, err := h.Sign(badIssuer)
	require.NoError(t, err)
	_, err = h.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)

	badAudience := NewAccessClaims("user-1", nil, time.Minute, "bartab-auth", []string{"other"}, "", time.Now().UTC())
	token, err = h.Sign(badAudience)
	require.NoError(t, err)
	_, err = h.Verify(token)
	require.ErrorIs(t, err, ErrAudience)
}

func TestHS256Malformed(t *testing.T) {
	h := NewHS256([]byte("test-secret"), "", nil)

	_, err := h.Verify("not-a-token")
	require.ErrorIs(t, err, ErrMalformed)
}
