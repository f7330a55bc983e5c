package auth

import (
	"context"
)

var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithClaimsContext sets the AccessClaims in the given context
func WithClaimsContext(r context.Context, claims AccessClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the AccessClaims from the standard context
func GetClaims(ctx context.Context) (AccessClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AccessClaims)
	return raw, ok
}

// Allowed is a convenience check against the scope snapshot in the context.
func Allowed(ctx context.Context, requiredScope string) bool {
	claims, ok := GetClaims(ctx)
	if !ok {
		return false
	}
	return AuthorizeScope(claims.Scope(), requiredScope) == nil
}
