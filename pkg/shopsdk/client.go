package shopsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the storefront API. It provides access to
// public operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a storefront client for the given base URL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// doRequest performs an unauthenticated HTTP request.
func (c *SDKClient) doRequest(
	ctx context.Context,
	method, path string,
	body any,
) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// decodeJSON decodes a response into target, converting non-expected
// statuses into a typed *APIError.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Register creates an account and returns an authenticated session
// backed by a memory store.
func (c *SDKClient) Register(ctx context.Context, name, email, password string) (*Session, error) {
	return c.RegisterWithStore(ctx, name, email, password, NewMemoryStore())
}

// RegisterWithStore is Register with an explicit token store.
func (c *SDKClient) RegisterWithStore(
	ctx context.Context,
	name, email, password string,
	store TokenStore,
) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/user/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var auth AuthResponse
	if err := decodeJSON(resp, &auth, http.StatusCreated); err != nil {
		return nil, err
	}
	return c.newSession(ctx, &auth, store)
}

// Login authenticates with email and password and returns a session
// backed by a memory store.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.LoginWithStore(ctx, email, password, NewMemoryStore())
}

// LoginWithStore is Login with an explicit token store.
func (c *SDKClient) LoginWithStore(
	ctx context.Context,
	email, password string,
	store TokenStore,
) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/user/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var auth AuthResponse
	if err := decodeJSON(resp, &auth, http.StatusOK); err != nil {
		return nil, err
	}
	return c.newSession(ctx, &auth, store)
}

// AdminLogin authenticates against the admin login endpoint. otp may
// be empty when the deployment has no TOTP configured.
func (c *SDKClient) AdminLogin(ctx context.Context, email, password, otp string) (*Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	if otp != "" {
		body["otp"] = otp
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/user/admin", body)
	if err != nil {
		return nil, err
	}

	var auth AuthResponse
	if err := decodeJSON(resp, &auth, http.StatusOK); err != nil {
		return nil, err
	}
	return c.newSession(ctx, &auth, NewMemoryStore())
}

// Resume rebuilds a session from tokens previously persisted in store.
// It does not hit the network: an expired access token recovers on
// first use through the refresh path. Returns ErrLoggedOut when the
// store is empty.
func (c *SDKClient) Resume(ctx context.Context, store TokenStore) (*Session, error) {
	t, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load token store: %w", err)
	}
	if t.IsZero() {
		return nil, ErrLoggedOut
	}
	return newSessionFromTokens(c, t, store)
}

// newSession validates and persists the tokens from an auth response.
func (c *SDKClient) newSession(ctx context.Context, auth *AuthResponse, store TokenStore) (*Session, error) {
	t := Tokens{Access: auth.AccessToken, Refresh: auth.RefreshToken}
	if t.Access == "" || t.Refresh == "" {
		return nil, fmt.Errorf("shopsdk: auth response missing tokens")
	}

	s, err := newSessionFromTokens(c, t, store)
	if err != nil {
		return nil, err
	}
	if err := store.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to persist tokens: %w", err)
	}
	return s, nil
}

// refreshAccessToken exchanges a refresh token for a new access token.
func (c *SDKClient) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/token/refresh", map[string]string{
		"refreshToken": refreshToken,
	})
	if err != nil {
		return "", err
	}

	var out refreshResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("shopsdk: refresh response missing access token")
	}
	return out.AccessToken, nil
}
