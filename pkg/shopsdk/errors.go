package shopsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for session lifecycle states.
var (
	// ErrLoggedOut is returned by authenticated operations when the
	// session holds no credentials.
	ErrLoggedOut = errors.New("shopsdk: session is logged out")

	// ErrSessionExpired is returned when the access token expired and
	// could not be refreshed. The session has already logged out.
	ErrSessionExpired = errors.New("shopsdk: session expired")
)

// APIError is a non-2xx response decoded from the server's failure
// envelope. Code carries the stable machine-readable error code; branch
// on Code, not on Message.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopsdk: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsAuthFailure reports whether the error means the presented access
// token was rejected. Only these responses are eligible for the
// refresh-and-retry path; a 403 is deliberate policy, not a credential
// problem.
func (e *APIError) IsAuthFailure() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// parseErrorResponse turns a non-2xx response body into an *APIError.
// Returns nil for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "HTTP_ERROR"
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
