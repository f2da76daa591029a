package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenAuthenticator verifies provider-issued HS256 session tokens and
// exposes the resulting user signal. SignIn with a valid token flips
// the signal to the token's subject; SignOut flips it back to none.
type TokenAuthenticator struct {
	secret []byte
	*signal
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewTokenAuthenticator(secret string) *TokenAuthenticator {
	return &TokenAuthenticator{secret: []byte(secret), signal: newSignal()}
}

// SignIn verifies token and publishes the authenticated user.
func (a *TokenAuthenticator) SignIn(_ context.Context, token string) (*User, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify session token: %w", err)
	}
	if !parsed.Valid || c.Subject == "" {
		return nil, fmt.Errorf("invalid session token")
	}

	u := &User{UID: c.Subject, Email: c.Email}
	a.set(u)
	return u, nil
}

func (a *TokenAuthenticator) OnChange(fn func(*User)) (stop func()) {
	return a.onChange(fn)
}

func (a *TokenAuthenticator) SignOut(context.Context) error {
	a.set(nil)
	return nil
}
