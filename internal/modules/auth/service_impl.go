package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

type staticSource struct {
	token string
	now   func() time.Time
}

// NewStaticTokenSource serves a fixed token, typically from configuration.
// A token stored on the request context wins over it.
func NewStaticTokenSource(token string) TokenSource {
	return &staticSource{token: strings.TrimSpace(token), now: time.Now}
}

func (s *staticSource) Token(ctx context.Context) (string, error) {
	token := s.token
	if t, ok := FromContext(ctx); ok {
		token = t
	}
	if token == "" {
		return "", ErrNoCredential
	}
	if err := checkExpiry(token, s.now()); err != nil {
		return "", err
	}
	return token, nil
}

// checkExpiry rejects a JWT whose exp has passed so the call fails locally instead
// of round-tripping to a 401. The signature is not verified here; the entity API
// does that. Opaque tokens pass through untouched.
func checkExpiry(token string, now time.Time) error {
	if strings.Count(token, ".") != 2 {
		return nil
	}
	claims := &jwt.StandardClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil
	}
	if claims.ExpiresAt != 0 && !claims.VerifyExpiresAt(now.Unix(), true) {
		return ErrExpired
	}
	return nil
}

// Middleware copies an incoming "Authorization: Bearer" header onto the request
// context so outbound entity API calls forward the caller's credential.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			r = r.WithContext(WithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}
