package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"journal-go/internal/journal"
)

// TestSecret is the password accepted by StubGate.
const TestSecret = "hunter2"

// ActiveSession returns a session valid for a day after clock's time.
func ActiveSession(clock journal.Clock) *journal.Session {
	now := clock.Now()
	return &journal.Session{
		Token:     "test-token",
		Subject:   "admin",
		IssuedAt:  now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
}

// StubGate is an in-memory SessionGate accepting TestSecret. Tokens are
// "token-1", "token-2" and so on.
type StubGate struct {
	clock journal.Clock
	ttl   time.Duration

	mu       sync.Mutex
	sessions map[string]*journal.Session
	next     int
}

// NewStubGate creates a gate whose sessions last ttl.
func NewStubGate(clock journal.Clock, ttl time.Duration) *StubGate {
	return &StubGate{clock: clock, ttl: ttl, sessions: map[string]*journal.Session{}}
}

func (g *StubGate) SignIn(_ context.Context, secret string) (*journal.Session, error) {
	if secret != TestSecret {
		return nil, journal.ErrNotAuthenticated
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	now := g.clock.Now()
	s := &journal.Session{
		Token:     fmt.Sprintf("token-%d", g.next),
		Subject:   "admin",
		IssuedAt:  now,
		ExpiresAt: now.Add(g.ttl),
	}
	g.sessions[s.Token] = s
	return s, nil
}

func (g *StubGate) SignOut(_ context.Context, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, token)
	return nil
}

func (g *StubGate) Current(_ context.Context, token string) (*journal.Session, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[token]
	if !ok || !s.Active(g.clock.Now()) {
		return nil, false
	}
	return s, true
}

var _ journal.SessionGate = (*StubGate)(nil)
