package journal

import (
	"context"
	"time"
)

// Session is an active admin session. A nil *Session means "not signed in".
type Session struct {
	Token     string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Active reports whether s is non-nil and not expired at now.
func (s *Session) Active(now time.Time) bool {
	return s != nil && s.Token != "" && now.Before(s.ExpiresAt)
}

// SessionGate wraps the identity provider. There is a single shared secret
// and no user accounts.
type SessionGate interface {
	// SignIn compares secret against the configured one and issues a session.
	SignIn(ctx context.Context, secret string) (*Session, error)

	// SignOut ends the session identified by token. Unknown tokens are ignored.
	SignOut(ctx context.Context, token string) error

	// Current returns the session for token, or false when it is missing,
	// expired, signed out or forged.
	Current(ctx context.Context, token string) (*Session, bool)
}
