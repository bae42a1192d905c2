package auth

import (
	"context"
)

type ctxKey string

const (
	userKey ctxKey = "userClaims"
)

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, userKey, c)
}

// FromContext returns the claims attached by the guard, if any.
func FromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(userKey).(Claims)
	return c, ok
}
