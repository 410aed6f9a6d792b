package service

import (
	"errors"
	"strings"

	goaway "github.com/TwiN/go-away"
)

const (
	CodeMinLength = 3
	CodeMaxLength = 20
)

var (
	ErrCodeLength   = errors.New("code length out of range")
	ErrCodeCharset  = errors.New("code contains invalid characters")
	ErrCodeReserved = errors.New("code is a reserved word")
	ErrCodeProfane  = errors.New("code contains inappropriate language")
)

// defaultReservedCodes are values that would be misleading or hand someone
// a code that looks official.
var defaultReservedCodes = []string{
	"ADMIN", "ADMINISTRATOR", "API", "AUTH", "BARTAB", "HELP", "INTERNAL",
	"MOD", "MODERATOR", "NULL", "OFFICIAL", "REFERRAL", "ROOT", "STAFF",
	"SUPPORT", "SYSTEM", "TEST", "UNDEFINED",
}

// CodeValidator normalizes and validates referral code values. Validation is
// fail-fast: normalization, length, charset, reserved words, then profanity,
// so callers always get the cheapest applicable rejection.
type CodeValidator struct {
	reserved map[string]struct{}
	detector *goaway.ProfanityDetector
}

// NewCodeValidator builds a validator. extraReserved and extraProfanity
// extend the built-in lists; both are matched case-insensitively.
func NewCodeValidator(extraReserved, extraProfanity []string) *CodeValidator {
	reserved := make(map[string]struct{}, len(defaultReservedCodes)+len(extraReserved))
	for _, w := range defaultReservedCodes {
		reserved[w] = struct{}{}
	}
	for _, w := range extraReserved {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w != "" {
			reserved[w] = struct{}{}
		}
	}

	profanities := goaway.DefaultProfanities
	if len(extraProfanity) > 0 {
		profanities = append(append([]string{}, goaway.DefaultProfanities...), extraProfanity...)
	}
	detector := goaway.NewProfanityDetector().
		WithCustomDictionary(profanities, goaway.DefaultFalsePositives, goaway.DefaultFalseNegatives)

	return &CodeValidator{reserved: reserved, detector: detector}
}

// Normalize trims surrounding whitespace and uppercases. It is idempotent:
// Normalize(Normalize(x)) == Normalize(x). The normalized form is the
// canonical one; storage and comparisons use it.
func (v *CodeValidator) Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Validate normalizes raw and checks it against every rule, returning the
// canonical form on success.
func (v *CodeValidator) Validate(raw string) (string, error) {
	code := v.Normalize(raw)

	// 1. Length bounds.
	if len(code) < CodeMinLength || len(code) > CodeMaxLength {
		return "", ErrCodeLength
	}

	// 2. Charset: A-Z, 0-9, hyphen, underscore.
	for _, r := range code {
		if !isCodeRune(r) {
			return "", ErrCodeCharset
		}
	}

	// 3. Reserved words.
	if _, ok := v.reserved[code]; ok {
		return "", ErrCodeReserved
	}

	// 4. Profanity, including separator-stripped form so HYPHEN-ated
	// spellings don't slip through.
	stripped := strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return -1
		}
		return r
	}, code)
	if v.detector.IsProfane(code) || v.detector.IsProfane(stripped) {
		return "", ErrCodeProfane
	}

	return code, nil
}

// SanitizeBase derives a candidate code base from a username: uppercase,
// invalid runes dropped, truncated to the maximum length. The result may
// still fail Validate (too short, reserved, profane); callers handle that.
func (v *CodeValidator) SanitizeBase(username string) string {
	base := strings.Map(func(r rune) rune {
		if isCodeRune(r) {
			return r
		}
		return -1
	}, v.Normalize(username))

	if len(base) > CodeMaxLength {
		base = base[:CodeMaxLength]
	}
	return base
}

func isCodeRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}
