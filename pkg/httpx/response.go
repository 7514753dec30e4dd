package httpx

import (
	"encoding/json"
	"net/http"
)

// Stable machine-readable error codes carried in the response envelope.
// Clients branch on these, never on the human-readable message.
const (
	// Access guard rejections (always 401).
	CodeNoToken            = "NO_TOKEN"
	CodeInvalidTokenFormat = "INVALID_TOKEN_FORMAT"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"

	// Refresh endpoint rejections.
	CodeMissingRefreshToken = "MISSING_REFRESH_TOKEN"
	CodeRefreshTokenExpired = "REFRESH_TOKEN_EXPIRED"
	CodeInvalidRefreshToken = "INVALID_REFRESH_TOKEN"
	CodeRefreshFailed       = "REFRESH_FAILED"

	// Login rejections.
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidOTP         = "INVALID_OTP"

	// Generic rejections.
	CodeForbidden   = "FORBIDDEN"
	CodeBadRequest  = "BAD_REQUEST"
	CodeNotFound    = "NOT_FOUND"
	CodeConflict    = "CONFLICT"
	CodeInternal    = "INTERNAL_ERROR"
	CodeRateLimited = "RATE_LIMITED"
)

// Envelope is the uniform body of every failure response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the failure envelope. errCode must be one of the
// Code* constants above.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	WriteJSON(w, status, Envelope{Success: false, Message: message, Error: errCode})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
