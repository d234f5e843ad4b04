package auth

import (
	"context"

	"github.com/goliatone/go-client-auth/middleware/jwtware"
)

var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithClaimsContext sets the validated token claims in the given context
func WithClaimsContext(ctx context.Context, claims *JWTClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromContext returns the claims stored by WithClaimsContext
func ClaimsFromContext(ctx context.Context) (*JWTClaims, bool) {
	claims, ok := ctx.Value(claimsCtxKey).(*JWTClaims)
	return claims, ok && claims != nil
}

// claimsEnricher propagates jwtware claims to the request user context
func claimsEnricher(ctx context.Context, claims jwtware.Claims) context.Context {
	if jc, ok := claims.(*JWTClaims); ok {
		return WithClaimsContext(ctx, jc)
	}
	return ctx
}
