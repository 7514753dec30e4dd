package httpx

import (
	"context"

	"github.com/marketloft/storefront/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID  ctxKey = "user_id"
	CtxKeyEmail   ctxKey = "email"
	CtxKeyIsAdmin ctxKey = "is_admin"
	CtxKeyClaims  ctxKey = "claims" // full jwtx.Claims when needed
)

// UserIDFromCtx returns the authenticated subject, or "" when the
// request did not pass through the access guard.
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

func EmailFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyEmail).(string); ok {
		return v
	}
	return ""
}

func IsAdminFromCtx(ctx context.Context) bool {
	v, _ := ctx.Value(CtxKeyIsAdmin).(bool)
	return v
}

func ClaimsFromCtx(ctx context.Context) (*jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(*jwtx.Claims)
	return c, ok
}
