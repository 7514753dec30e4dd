package httpx

import "net/http"

// RequireAdmin rejects non-admin callers with a 403. Authorization
// failures are terminal for the request but never for the session: the
// caller's tokens stay valid, so clients must not treat this as a
// credential problem.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdminFromCtx(r.Context()) {
				WriteError(w, http.StatusForbidden, CodeForbidden, "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
