package geminiweb

import "fmt"

// Known in-band error codes returned inside an otherwise successful
// StreamGenerate response.
const (
	ErrorCodeTemporary          = 1013
	ErrorCodeUsageLimitExceeded = 1037
	ErrorCodeModelInconsistent  = 1050
	ErrorCodeModelHeaderInvalid = 1052
	ErrorCodeIPBlocked          = 1060
)

// AuthError means the cookies were rejected: the app page served a
// sign-in screen or no session token could be scraped.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string { return "gemini auth: " + e.Msg }

// APIError is a generation failure reported by the upstream, either as
// an HTTP status or as an in-band error code.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("gemini api error %d: %s", e.Code, e.Msg)
	}
	return "gemini api: " + e.Msg
}

// apiErrorForCode maps a known in-band code to a descriptive APIError.
func apiErrorForCode(code int) *APIError {
	msg := "unknown error"
	switch code {
	case ErrorCodeTemporary:
		msg = "temporary server error, retry later"
	case ErrorCodeUsageLimitExceeded:
		msg = "usage limit exceeded, try another model"
	case ErrorCodeModelInconsistent:
		msg = "selected model is inconsistent or unavailable"
	case ErrorCodeModelHeaderInvalid:
		msg = "invalid model header string"
	case ErrorCodeIPBlocked:
		msg = "too many requests, IP temporarily blocked"
	}
	return &APIError{Code: code, Msg: msg}
}
