package auth

import (
	"context"
	"errors"
)

// ErrNoCredential is returned when no bearer token has been supplied.
var ErrNoCredential = errors.New("no bearer credential available")

// ErrExpired is returned for a JWT whose exp claim has passed.
var ErrExpired = errors.New("bearer credential has expired")

// TokenSource supplies the bearer credential attached to every entity API call.
// Obtaining and renewing it belongs to the authentication collaborator.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type ctxKey struct{}

// WithToken stores a caller-supplied bearer token on ctx. It takes precedence over
// the configured source so a browser session's own credential is forwarded.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

// FromContext returns the token stored by WithToken.
func FromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(ctxKey{}).(string)
	return t, ok && t != ""
}
