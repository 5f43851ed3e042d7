package errors

import "fmt"

// APIError represents a standardized, user-visible request error.
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
	Type       string
}

// New constructs an APIError.
func New(status int, code, typ, message string) *APIError {
	return &APIError{HTTPStatus: status, Code: code, Type: typ, Message: message}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.HTTPStatus, e.Message)
}

// OpenAIError mirrors OpenAI's error envelope.
type OpenAIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
}

// Envelope renders the APIError as an OpenAI-compatible error body.
func (e *APIError) Envelope() OpenAIError {
	var out OpenAIError
	out.Error.Message = e.Message
	out.Error.Type = e.Type
	out.Error.Code = e.Code
	return out
}
