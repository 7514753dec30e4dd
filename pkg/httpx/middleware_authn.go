package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/marketloft/storefront/pkg/jwtx"
	"github.com/marketloft/storefront/pkg/slogx"
)

// AuthnMiddleware is the access guard: it extracts the bearer
// credential, verifies it as an access token and injects the claims
// into the request context. Every rejection is a 401 with a stable
// error code; it never logs the token itself.
func AuthnMiddleware(v *jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := bearerToken(r)
			if !ok {
				writeGuardError(w, CodeNoToken, "authentication token required")
				return
			}

			claims, err := v.Verify(raw, jwtx.ClassAccess)
			if err != nil {
				switch {
				case errors.Is(err, jwtx.ErrExpired):
					writeGuardError(w, CodeTokenExpired, "token expired")
				case errors.Is(err, jwtx.ErrMalformed):
					writeGuardError(w, CodeInvalidTokenFormat, "invalid token format")
					log.Warn("malformed bearer token", "err", err)
				default:
					writeGuardError(w, CodeInvalidToken, "invalid token")
					log.Warn("token verification failed", "err", err)
				}
				return
			}

			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken pulls the credential from the Authorization header,
// falling back to the legacy bare "token" header older clients send.
func bearerToken(r *http.Request) (string, bool) {
	if authz := r.Header.Get("Authorization"); authz != "" {
		raw, err := jwtx.Clean(authz)
		return raw, err == nil
	}
	if legacy := r.Header.Get("token"); legacy != "" {
		raw, err := jwtx.Clean(legacy)
		return raw, err == nil
	}
	return "", false
}

func contextWithAuth(ctx context.Context, c *jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyEmail, c.Email)
	ctx = context.WithValue(ctx, CtxKeyIsAdmin, c.IsAdmin)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// RFC 6750-style challenge alongside the JSON envelope.
func writeGuardError(w http.ResponseWriter, code, desc string) {
	w.Header().Set("WWW-Authenticate",
		`Bearer error="invalid_token", error_description="`+strings.ReplaceAll(desc, `"`, "")+`"`)
	WriteError(w, http.StatusUnauthorized, code, desc)
}
