package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marketloft/storefront/pkg/httpx"
	"github.com/marketloft/storefront/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func guardFixture(t *testing.T) (*jwtx.Issuer, http.Handler) {
	t.Helper()

	cfg := jwtx.Config{
		AccessSecret:  []byte("guard-access-secret"),
		RefreshSecret: []byte("guard-refresh-secret"),
	}
	iss, err := jwtx.NewIssuer(cfg)
	require.NoError(t, err)
	ver, err := jwtx.NewVerifier(cfg)
	require.NoError(t, err)

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"userId":  httpx.UserIDFromCtx(r.Context()),
			"email":   httpx.EmailFromCtx(r.Context()),
			"isAdmin": httpx.IsAdminFromCtx(r.Context()),
		})
	})
	return iss, httpx.Chain(echo, httpx.AuthnMiddleware(ver))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestAuthnMiddleware(t *testing.T) {
	iss, guarded := guardFixture(t)

	access, err := iss.IssueAccess(jwtx.NewClaims("user-1", "u1@example.com", true))
	require.NoError(t, err)

	t.Run("valid bearer token passes with claims in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()

		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "user-1", body["userId"])
		require.Equal(t, "u1@example.com", body["email"])
		require.Equal(t, true, body["isAdmin"])
	})

	t.Run("legacy token header still accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("token", access)
		rec := httptest.NewRecorder()

		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.CodeNoToken, decodeEnvelope(t, rec).Error)
	})

	t.Run("malformed token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()

		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.CodeInvalidTokenFormat, decodeEnvelope(t, rec).Error)
	})

	t.Run("expired token", func(t *testing.T) {
		pastIss, err := jwtx.NewIssuer(jwtx.Config{
			AccessSecret:  []byte("guard-access-secret"),
			RefreshSecret: []byte("guard-refresh-secret"),
			Now:           func() time.Time { return time.Now().Add(-3 * time.Hour) },
		})
		require.NoError(t, err)
		stale, err := pastIss.IssueAccess(jwtx.NewClaims("user-1", "", false))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+stale)
		rec := httptest.NewRecorder()

		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.CodeTokenExpired, decodeEnvelope(t, rec).Error)
	})

	t.Run("refresh token rejected as access credential", func(t *testing.T) {
		refresh, err := iss.IssueRefresh(jwtx.NewClaims("user-1", "", false))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		rec := httptest.NewRecorder()

		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.CodeInvalidToken, decodeEnvelope(t, rec).Error)
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+access[:len(access)-2]+"xx")
		rec := httptest.NewRecorder()

		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.CodeInvalidToken, decodeEnvelope(t, rec).Error)
	})
}

func TestRequireAdmin(t *testing.T) {
	iss, _ := guardFixture(t)

	cfg := jwtx.Config{
		AccessSecret:  []byte("guard-access-secret"),
		RefreshSecret: []byte("guard-refresh-secret"),
	}
	ver, err := jwtx.NewVerifier(cfg)
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := httpx.Chain(ok, httpx.AuthnMiddleware(ver), httpx.RequireAdmin())

	t.Run("admin passes", func(t *testing.T) {
		token, err := iss.IssueAccess(jwtx.NewClaims("admin-1", "admin@example.com", true))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-admin rejected with 403, not 401", func(t *testing.T) {
		token, err := iss.IssueAccess(jwtx.NewClaims("user-1", "u1@example.com", false))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, httpx.CodeForbidden, decodeEnvelope(t, rec).Error)
	})
}
