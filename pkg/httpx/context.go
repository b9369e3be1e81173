package httpx

import (
	"context"

	"github.com/aussiebroadwan/keygate/pkg/sessionx"
)

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyClaims ctxKey = "claims"
)

// UserIDFromCtx returns the authenticated user id, if any.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyUserID).(string)
	return v, ok && v != ""
}

// ClaimsFromCtx returns the verified session claims, if any.
func ClaimsFromCtx(ctx context.Context) (sessionx.Claims, bool) {
	v, ok := ctx.Value(CtxKeyClaims).(sessionx.Claims)
	return v, ok
}
