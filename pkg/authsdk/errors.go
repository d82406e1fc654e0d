package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/authservice/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeInvalidInput         = "invalid_input"
	ErrorCodeUserAlreadyExists    = "user_already_exists"
	ErrorCodeIncorrectCredentials = "incorrect_credentials"
	ErrorCodeMissingToken         = "missing_token"
	ErrorCodeInvalidToken         = "invalid_token"
	ErrorCodeMalformedBody        = "malformed_body"
	ErrorCodeServerError          = "server_error"
	ErrorCodeRateLimitExceeded    = "rate_limit_exceeded"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is a non-success response from the auth service. It is used both
// by the server (to write HTTP responses) and by the client (to report them).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is a stable machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches another *APIError with the same status and code, so callers
// can write errors.Is(err, authsdk.ErrIncorrectCredentials).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Code, e.Description)
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	// ErrInvalidInput is returned when a field fails validation.
	ErrInvalidInput = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidInput,
		Description: "Invalid credentials",
	}

	// ErrUserAlreadyExists is returned by signup for a taken email.
	ErrUserAlreadyExists = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeUserAlreadyExists,
		Description: "User already exists",
	}

	// ErrIncorrectCredentials covers unknown users, wrong passwords and bad
	// 2FA codes alike.
	ErrIncorrectCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeIncorrectCredentials,
		Description: "Incorrect credentials",
	}

	// ErrMissingToken is returned by logout without a jwt cookie.
	ErrMissingToken = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeMissingToken,
		Description: "Missing auth token",
	}

	// ErrInvalidToken is returned when a token is invalid, expired or banned.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "Invalid auth token",
	}

	// ErrMalformedBody is returned when the request body is not the expected JSON.
	ErrMalformedBody = &APIError{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        ErrorCodeMalformedBody,
		Description: "Request body could not be parsed",
	}

	// ErrServerError is returned when the service hit an unexpected condition.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "Unexpected error",
	}

	// ErrRateLimited is returned once a caller exceeds a route's limit.
	ErrRateLimited = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeRateLimitExceeded,
		Description: "Too many requests. Please try again later.",
	}
)

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-success response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp httpx.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
