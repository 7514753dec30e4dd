package shopsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/marketloft/storefront/pkg/jwtx"
)

// Session is an authenticated client with transparent token refresh.
// It keeps an in-memory mirror of the token pair and writes every
// change through its TokenStore. All methods are safe for concurrent
// use.
type Session struct {
	client *SDKClient
	store  TokenStore

	mu     sync.RWMutex
	tokens Tokens

	// refreshMu serializes the refresh path so concurrent 401s share a
	// single refresh round trip.
	refreshMu sync.Mutex
}

// newSessionFromTokens builds a session after structurally validating
// the stored tokens. A missing access token is fine as long as the
// refresh token is usable; the first request mints a new one through
// the refresh path.
func newSessionFromTokens(c *SDKClient, t Tokens, store TokenStore) (*Session, error) {
	if t.Access != "" {
		if _, err := jwtx.Parse(t.Access); err != nil {
			return nil, fmt.Errorf("shopsdk: stored access token unusable: %w", err)
		}
	}
	if _, err := jwtx.Parse(t.Refresh); err != nil {
		return nil, fmt.Errorf("shopsdk: stored refresh token unusable: %w", err)
	}
	return &Session{client: c, store: store, tokens: t}, nil
}

// Token returns the current access token, revalidating it structurally
// first. A session holding only a refresh token mints an access token
// on the spot; a mirror that turned malformed (corrupted store,
// external writer) logs the session out rather than sending garbage
// upstream.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	t := s.tokens
	s.mu.RUnlock()

	if t.IsZero() {
		return "", ErrLoggedOut
	}
	if t.Access == "" {
		return s.refreshOnce(ctx, "")
	}
	if _, err := jwtx.Parse(t.Access); err != nil {
		_ = s.Logout(ctx)
		return "", fmt.Errorf("%w: %w", ErrLoggedOut, err)
	}
	return t.Access, nil
}

// RefreshToken returns the current refresh token without validation.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Refresh
}

// LoggedIn reports whether the session currently holds credentials.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.tokens.IsZero()
}

// Logout drops the credentials from the mirror and the store. It is
// idempotent: logging out an already logged-out session is a no-op.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	wasOut := s.tokens.IsZero()
	s.tokens = Tokens{}
	s.mu.Unlock()

	if wasOut {
		return nil
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear token store: %w", err)
	}
	return nil
}

// refreshOnce refreshes the access token, deduplicating concurrent
// callers. failedAccess is the token that just got rejected; if the
// mirror already moved past it another caller won the race and its
// result is reused instead of spending a second round trip.
func (s *Session) refreshOnce(ctx context.Context, failedAccess string) (string, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.mu.RLock()
	current := s.tokens
	s.mu.RUnlock()

	if current.IsZero() {
		return "", ErrLoggedOut
	}
	if current.Access != failedAccess {
		return current.Access, nil
	}

	access, err := s.client.refreshAccessToken(ctx, current.Refresh)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.tokens.Access = access
	s.mu.Unlock()

	if err := s.store.SetAccess(ctx, access); err != nil {
		return "", fmt.Errorf("failed to persist refreshed token: %w", err)
	}
	return access, nil
}

// doAuthRequest performs an authenticated request. On a 401 it runs
// the recovery path exactly once: refresh the access token and replay
// the original request. A second 401 after replay, or a failed
// refresh, logs the session out and surfaces the original failure. Any
// other status (including 403) passes through untouched.
func (s *Session) doAuthRequest(
	ctx context.Context,
	method, path string,
	body any,
	target any,
	expectedStatus int,
) error {
	access, err := s.Token(ctx)
	if err != nil {
		return err
	}

	resp, err := s.send(ctx, method, path, body, access)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return decodeJSON(resp, target, expectedStatus)
	}

	// Keep the original 401 for reporting before consuming the body.
	authErr := decodeJSON(resp, nil, expectedStatus)

	fresh, refreshErr := s.refreshOnce(ctx, access)
	if refreshErr != nil {
		_ = s.Logout(ctx)
		return fmt.Errorf("%w: %w", ErrSessionExpired, authErr)
	}

	retry, err := s.send(ctx, method, path, body, fresh)
	if err != nil {
		return err
	}
	if retry.StatusCode == http.StatusUnauthorized {
		// Refreshed token still rejected; give up without looping.
		err := decodeJSON(retry, nil, expectedStatus)
		_ = s.Logout(ctx)
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return decodeJSON(retry, target, expectedStatus)
}

// send builds and executes one authenticated HTTP request.
func (s *Session) send(ctx context.Context, method, path string, body any, access string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.client.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+access)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// adoptTokens folds an externally observed token pair into the mirror.
// Used by the reconciler; the store already holds t.
func (s *Session) adoptTokens(t Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = t
}

// IsAuthError reports whether err means the session lost its
// credentials (logged out or failed refresh), as opposed to a policy
// rejection or transport failure.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrLoggedOut) || errors.Is(err, ErrSessionExpired)
}
