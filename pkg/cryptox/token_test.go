package cryptox_test

import (
	"testing"

	"github.com/aussiebroadwan/referral/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	a, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.Len(t, a, 43)

	b, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	_, err = cryptox.GenerateToken(0)
	require.Error(t, err)
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	token := cryptox.MustGenerateToken(cryptox.TokenSize128)

	fp := cryptox.FingerprintToken(token)
	require.Equal(t, fp, cryptox.FingerprintToken(token), "fingerprint must be deterministic")
	require.NotEqual(t, token, fp)

	require.True(t, cryptox.VerifyTokenFingerprint(token, fp))
	require.False(t, cryptox.VerifyTokenFingerprint("wrong", fp))
}
