package jwtx

import "errors"

var (
	ErrMalformed   = errors.New("token malformed")
	ErrAlgMismatch = errors.New("unexpected signing algorithm")
	ErrInvalidSig  = errors.New("invalid token signature")
	ErrIssuer      = errors.New("invalid issuer")
	ErrAudience    = errors.New("invalid audience")
	ErrExpired     = errors.New("token expired")
	ErrNotYetValid = errors.New("token not yet valid")
)
