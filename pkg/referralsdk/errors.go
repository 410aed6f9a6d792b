package referralsdk

import "fmt"

// Error codes returned by the service.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeCodeTaken         = "code_taken"
	ErrorCodeCodeReserved      = "code_reserved"
	ErrorCodeCodeProfane       = "code_inappropriate"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeCodeInactive      = "code_inactive"
	ErrorCodeCodeExpired       = "code_expired"
	ErrorCodeCodeExhausted     = "code_exhausted"
	ErrorCodeSelfReferral      = "self_referral"
	ErrorCodeAlreadyReferred   = "already_referred"
	ErrorCodeNotYetCompleted   = "not_yet_completed"
	ErrorCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrorCodeServerError       = "server_error"
)

// APIError is an error response from the service, decoded into a typed error.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int `json:"-"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`

	// RetryAfter is the parsed Retry-After header in seconds, when present
	RetryAfter int `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// IsRateLimited reports whether the error is a quota rejection.
func (e *APIError) IsRateLimited() bool {
	return e.Code == ErrorCodeRateLimitExceeded
}
