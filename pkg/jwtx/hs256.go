package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks a compact JWT and returns its claims.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256 signs and verifies tokens with a shared HMAC-SHA256 secret.
type HS256 struct {
	secret   []byte
	issuer   string
	audience []string
}

// NewHS256 builds an HS256 signer/verifier. issuer and audience are optional;
// empty values skip the corresponding check on Verify.
func NewHS256(secret []byte, issuer string, audience []string) *HS256 {
	return &HS256{secret: secret, issuer: issuer, audience: audience}
}

// Sign mints a compact token for the given claims.
func (h *HS256) Sign(claims Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(h.secret)
}

// Verify parses and validates a compact token.
//
//  1. Signature and algorithm (HS256 only).
//  2. Registered time claims (exp, nbf).
//  3. Issuer and audience, when configured.
func (h *HS256) Verify(token string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrAlgMismatch
		}
		return h.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}

	if err := claims.ValidateAudience(h.audience); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrMalformed
	}
}
