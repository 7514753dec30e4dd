package shopsdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marketloft/storefront/pkg/httpx"
	"github.com/marketloft/storefront/pkg/jwtx"
	"github.com/marketloft/storefront/pkg/shopsdk"
	"github.com/stretchr/testify/require"
)

// fakeShop is a minimal storefront backend for exercising the session
// recovery paths. It verifies bearer tokens for real so expiry and
// refresh behave exactly like production.
type fakeShop struct {
	t   *testing.T
	iss *jwtx.Issuer
	ver *jwtx.Verifier

	refreshCalls   atomic.Int64
	protectedCalls atomic.Int64

	// refreshStatus, when non-zero, forces the refresh endpoint to fail
	// with that HTTP status and refreshCode.
	refreshStatus int
	refreshCode   string

	server *httptest.Server
}

func newFakeShop(t *testing.T) *fakeShop {
	t.Helper()

	cfg := jwtx.Config{
		AccessSecret:  []byte("fake-shop-access"),
		RefreshSecret: []byte("fake-shop-refresh"),
	}
	iss, err := jwtx.NewIssuer(cfg)
	require.NoError(t, err)
	ver, err := jwtx.NewVerifier(cfg)
	require.NoError(t, err)

	f := &fakeShop{t: t, iss: iss, ver: ver}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/user/login", f.handleLogin)
	mux.HandleFunc("POST /api/token/refresh", f.handleRefresh)
	mux.HandleFunc("GET /api/cart", f.handleCart)
	mux.HandleFunc("GET /api/order/list", f.handleAdminOrders)

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeShop) client() *shopsdk.SDKClient {
	return shopsdk.NewSDKClient(f.server.URL)
}

// issueExpired mints an access token that is already past its expiry.
func (f *fakeShop) issueExpired(claims jwtx.Claims) string {
	pastIss, err := jwtx.NewIssuer(jwtx.Config{
		AccessSecret:  []byte("fake-shop-access"),
		RefreshSecret: []byte("fake-shop-refresh"),
		Now:           func() time.Time { return time.Now().Add(-3 * time.Hour) },
	})
	require.NoError(f.t, err)
	token, err := pastIss.IssueAccess(claims)
	require.NoError(f.t, err)
	return token
}

func (f *fakeShop) handleLogin(w http.ResponseWriter, r *http.Request) {
	claims := jwtx.NewClaims("user-1", "u1@example.com", false)
	access, err := f.iss.IssueAccess(claims)
	require.NoError(f.t, err)
	refresh, err := f.iss.IssueRefresh(claims)
	require.NoError(f.t, err)

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         map[string]any{"id": "user-1", "email": "u1@example.com"},
	})
}

func (f *fakeShop) handleRefresh(w http.ResponseWriter, r *http.Request) {
	f.refreshCalls.Add(1)

	if f.refreshStatus != 0 {
		httpx.WriteError(w, f.refreshStatus, f.refreshCode, "refresh rejected")
		return
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))

	claims, err := f.ver.Verify(body.RefreshToken, jwtx.ClassRefresh)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidRefreshToken, "invalid refresh token")
		return
	}

	access, err := f.iss.IssueAccess(*claims)
	require.NoError(f.t, err)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"accessToken": access,
	})
}

func (f *fakeShop) handleCart(w http.ResponseWriter, r *http.Request) {
	f.protectedCalls.Add(1)

	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	_, err := f.ver.Verify(raw, jwtx.ClassAccess)
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeTokenExpired, "token expired")
	case err != nil:
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidToken, "invalid token")
	default:
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"cart":    shopsdk.Cart{Items: []shopsdk.CartItem{{ProductID: "p1", Quantity: 2}}},
		})
	}
}

func (f *fakeShop) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	httpx.WriteError(w, http.StatusForbidden, httpx.CodeForbidden, "admin access required")
}

func TestSessionRefreshAndRetry(t *testing.T) {
	ctx := context.Background()
	shop := newFakeShop(t)

	session, err := shop.client().Login(ctx, "u1@example.com", "password")
	require.NoError(t, err)

	// Swap in an expired access token so the first protected call 401s.
	store := shopsdk.NewMemoryStore()
	expired := shop.issueExpired(jwtx.NewClaims("user-1", "u1@example.com", false))
	require.NoError(t, store.Save(ctx, shopsdk.Tokens{
		Access:  expired,
		Refresh: session.RefreshToken(),
	}))
	session, err = shop.client().Resume(ctx, store)
	require.NoError(t, err)

	cart, err := session.GetCart(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	require.EqualValues(t, 1, shop.refreshCalls.Load(), "expired access should refresh exactly once")
	require.EqualValues(t, 2, shop.protectedCalls.Load(), "original call plus one replay")

	// Mirror and store both moved to the fresh access token.
	stored, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotEqual(t, expired, stored.Access)
	current, err := session.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, stored.Access, current)

	// Follow-up calls ride the refreshed token without more refreshes.
	_, err = session.GetCart(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, shop.refreshCalls.Load())
}

func TestSessionRefreshFailureLogsOut(t *testing.T) {
	ctx := context.Background()
	shop := newFakeShop(t)
	shop.refreshStatus = http.StatusUnauthorized
	shop.refreshCode = httpx.CodeRefreshTokenExpired

	store := shopsdk.NewMemoryStore()
	session, err := shop.client().LoginWithStore(ctx, "u1@example.com", "password", store)
	require.NoError(t, err)

	expired := shop.issueExpired(jwtx.NewClaims("user-1", "u1@example.com", false))
	require.NoError(t, store.Save(ctx, shopsdk.Tokens{Access: expired, Refresh: session.RefreshToken()}))
	session, err = shop.client().Resume(ctx, store)
	require.NoError(t, err)

	_, err = session.GetCart(ctx)
	require.ErrorIs(t, err, shopsdk.ErrSessionExpired)
	require.True(t, shopsdk.IsAuthError(err))

	// The original authentication failure is preserved in the chain.
	var apiErr *shopsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	// Session logged out locally and the store was cleared.
	require.False(t, session.LoggedIn())
	stored, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, stored.IsZero())

	// No retry storm: one refresh attempt, one protected attempt.
	require.EqualValues(t, 1, shop.refreshCalls.Load())
	require.EqualValues(t, 1, shop.protectedCalls.Load())

	// Further calls fail fast without the network.
	_, err = session.GetCart(ctx)
	require.ErrorIs(t, err, shopsdk.ErrLoggedOut)
}

func TestSessionForbiddenDoesNotRefresh(t *testing.T) {
	ctx := context.Background()
	shop := newFakeShop(t)

	session, err := shop.client().Login(ctx, "u1@example.com", "password")
	require.NoError(t, err)

	_, err = session.ListAllOrders(ctx)

	var apiErr *shopsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.Equal(t, httpx.CodeForbidden, apiErr.Code)
	require.False(t, apiErr.IsAuthFailure())
	require.False(t, shopsdk.IsAuthError(err))

	// A 403 is policy, not a credential problem.
	require.EqualValues(t, 0, shop.refreshCalls.Load())
	require.True(t, session.LoggedIn())
}

func TestSessionSingleFlightRefresh(t *testing.T) {
	ctx := context.Background()
	shop := newFakeShop(t)

	session, err := shop.client().Login(ctx, "u1@example.com", "password")
	require.NoError(t, err)

	store := shopsdk.NewMemoryStore()
	expired := shop.issueExpired(jwtx.NewClaims("user-1", "u1@example.com", false))
	require.NoError(t, store.Save(ctx, shopsdk.Tokens{Access: expired, Refresh: session.RefreshToken()}))
	session, err = shop.client().Resume(ctx, store)
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = session.GetCart(ctx)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}
	require.EqualValues(t, 1, shop.refreshCalls.Load(), "concurrent 401s must share one refresh")
}

func TestSessionLogoutIdempotent(t *testing.T) {
	ctx := context.Background()
	shop := newFakeShop(t)

	store := shopsdk.NewMemoryStore()
	session, err := shop.client().LoginWithStore(ctx, "u1@example.com", "password", store)
	require.NoError(t, err)
	require.True(t, session.LoggedIn())

	require.NoError(t, session.Logout(ctx))
	require.False(t, session.LoggedIn())

	stored, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, stored.IsZero())

	// Logging out again is a no-op, not an error.
	require.NoError(t, session.Logout(ctx))

	_, err = session.Token(ctx)
	require.ErrorIs(t, err, shopsdk.ErrLoggedOut)
}

func TestResumeValidatesStoredTokens(t *testing.T) {
	ctx := context.Background()
	shop := newFakeShop(t)

	t.Run("empty store", func(t *testing.T) {
		_, err := shop.client().Resume(ctx, shopsdk.NewMemoryStore())
		require.ErrorIs(t, err, shopsdk.ErrLoggedOut)
	})

	t.Run("garbage access token", func(t *testing.T) {
		store := shopsdk.NewMemoryStore()
		require.NoError(t, store.Save(ctx, shopsdk.Tokens{Access: "not a jwt", Refresh: "also junk"}))

		_, err := shop.client().Resume(ctx, store)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

// A store holding only a refresh token is a live session: the first
// use mints an access token through the refresh path instead of
// tearing the session down.
func TestResumeWithRefreshTokenOnly(t *testing.T) {
	ctx := context.Background()
	shop := newFakeShop(t)

	claims := jwtx.NewClaims("user-1", "u1@example.com", false)
	refresh, err := shop.iss.IssueRefresh(claims)
	require.NoError(t, err)

	store := shopsdk.NewMemoryStore()
	require.NoError(t, store.Save(ctx, shopsdk.Tokens{Refresh: refresh}))

	session, err := shop.client().Resume(ctx, store)
	require.NoError(t, err)
	require.True(t, session.LoggedIn())

	_, err = session.GetCart(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, shop.refreshCalls.Load())
	require.EqualValues(t, 1, shop.protectedCalls.Load())

	// The minted access token is persisted; the refresh token is untouched.
	stored, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, stored.Access)
	require.Equal(t, refresh, stored.Refresh)

	access, err := session.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, stored.Access, access)
}
