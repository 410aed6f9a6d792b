package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateNormalizes(t *testing.T) {
	v := NewCodeValidator(nil, nil)

	code, err := v.Validate("  my-code  ")
	require.NoError(t, err)
	require.Equal(t, "MY-CODE", code)

	code, err = v.Validate("alice_123")
	require.NoError(t, err)
	require.Equal(t, "ALICE_123", code)
}

func TestNormalizeIdempotent(t *testing.T) {
	v := NewCodeValidator(nil, nil)

	for _, raw := range []string{"  my-code  ", "ALICE", "a_b-C9", ""} {
		once := v.Normalize(raw)
		require.Equal(t, once, v.Normalize(once))
	}
}

func TestValidateLength(t *testing.T) {
	v := NewCodeValidator(nil, nil)

	_, err := v.Validate("ab")
	require.ErrorIs(t, err, ErrCodeLength)

	_, err = v.Validate("A23456789012345678901") // 21 chars
	require.ErrorIs(t, err, ErrCodeLength)

	_, err = v.Validate("abc")
	require.NoError(t, err)

	_, err = v.Validate("A2345678901234567890") // 20 chars
	require.NoError(t, err)
}

func TestValidateCharset(t *testing.T) {
	v := NewCodeValidator(nil, nil)

	_, err := v.Validate("my_code!")
	require.ErrorIs(t, err, ErrCodeCharset)

	_, err = v.Validate("my code")
	require.ErrorIs(t, err, ErrCodeCharset)

	_, err = v.Validate("café")
	require.ErrorIs(t, err, ErrCodeCharset)
}

func TestValidateReserved(t *testing.T) {
	v := NewCodeValidator([]string{"vip"}, nil)

	_, err := v.Validate("admin")
	require.ErrorIs(t, err, ErrCodeReserved)

	_, err = v.Validate("  Support ")
	require.ErrorIs(t, err, ErrCodeReserved)

	// Extras are honored case-insensitively.
	_, err = v.Validate("VIP")
	require.ErrorIs(t, err, ErrCodeReserved)

	// Reserved words embedded in longer codes are fine.
	_, err = v.Validate("ADMINISTRATE")
	require.NoError(t, err)
}

func TestValidateProfanity(t *testing.T) {
	v := NewCodeValidator(nil, []string{"grognard"})

	_, err := v.Validate("shithead")
	require.ErrorIs(t, err, ErrCodeProfane)

	// Separator-stripped form is also checked.
	_, err = v.Validate("shit-head")
	require.ErrorIs(t, err, ErrCodeProfane)

	_, err = v.Validate("grognard")
	require.ErrorIs(t, err, ErrCodeProfane)

	_, err = v.Validate("friendly")
	require.NoError(t, err)
}

func TestValidateFailFastOrder(t *testing.T) {
	v := NewCodeValidator(nil, nil)

	// Length is reported before charset.
	_, err := v.Validate("a!")
	require.ErrorIs(t, err, ErrCodeLength)

	// Charset is reported before profanity.
	_, err = v.Validate("shit head!")
	require.ErrorIs(t, err, ErrCodeCharset)
}

func TestSanitizeBase(t *testing.T) {
	v := NewCodeValidator(nil, nil)

	require.Equal(t, "ALICE123", v.SanitizeBase("alice123"))
	require.Equal(t, "OMALLEY", v.SanitizeBase("o'malley"))
	require.Equal(t, "AB", v.SanitizeBase("a b!"))
	require.Equal(t, "", v.SanitizeBase("!!!"))
	require.Len(t, v.SanitizeBase("a-very-long-username-indeed"), CodeMaxLength)
}
