package session_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"journal-go/internal/journal"
	"journal-go/internal/session"
	"journal-go/internal/testutil"
)

var signingKey = []byte("0123456789abcdef0123456789abcdef")

func newGate(t *testing.T) (*session.JWTGate, *testutil.StubClock) {
	t.Helper()
	hash, err := session.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	clock := testutil.FixedClock()
	gate, err := session.NewJWTGate(hash, signingKey, time.Hour, clock, testutil.NewStubIDGenerator(), journal.NewNopLogger())
	if err != nil {
		t.Fatalf("NewJWTGate() error = %v", err)
	}
	return gate, clock
}

func TestNewJWTGate(t *testing.T) {
	hash, _ := session.HashPassword("pw")
	clock := testutil.FixedClock()
	tests := []struct {
		name string
		hash string
		key  []byte
		ttl  time.Duration
	}{
		{"plain text instead of hash", "pw", signingKey, time.Hour},
		{"short key", hash, []byte("short"), time.Hour},
		{"zero ttl", hash, signingKey, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := session.NewJWTGate(tt.hash, tt.key, tt.ttl, clock, testutil.NewStubIDGenerator(), journal.NewNopLogger()); err == nil {
				t.Error("NewJWTGate() expected error")
			}
		})
	}
}

func TestJWTGate_SignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("correct password", func(t *testing.T) {
		gate, clock := newGate(t)
		s, err := gate.SignIn(ctx, "correct horse")
		if err != nil {
			t.Fatalf("SignIn() error = %v", err)
		}
		if !s.Active(clock.Now()) {
			t.Error("new session is not active")
		}
		if want := clock.Now().Add(time.Hour); !s.ExpiresAt.Equal(want) {
			t.Errorf("ExpiresAt = %v, want %v", s.ExpiresAt, want)
		}
		got, ok := gate.Current(ctx, s.Token)
		if !ok || got.Subject != session.Subject {
			t.Errorf("Current() = %v, %v, want the admin session", got, ok)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		gate, _ := newGate(t)
		if _, err := gate.SignIn(ctx, "battery staple"); err != journal.ErrNotAuthenticated {
			t.Errorf("SignIn() error = %v, want ErrNotAuthenticated", err)
		}
	})
}

func TestJWTGate_Current(t *testing.T) {
	ctx := context.Background()

	t.Run("expires with the clock", func(t *testing.T) {
		gate, clock := newGate(t)
		s, _ := gate.SignIn(ctx, "correct horse")
		clock.Advance(59 * time.Minute)
		if _, ok := gate.Current(ctx, s.Token); !ok {
			t.Error("Current() rejected a session before expiry")
		}
		clock.Advance(time.Minute)
		if _, ok := gate.Current(ctx, s.Token); ok {
			t.Error("Current() accepted an expired session")
		}
	})

	t.Run("signed out", func(t *testing.T) {
		gate, _ := newGate(t)
		first, _ := gate.SignIn(ctx, "correct horse")
		second, _ := gate.SignIn(ctx, "correct horse")
		if err := gate.SignOut(ctx, first.Token); err != nil {
			t.Fatalf("SignOut() error = %v", err)
		}
		if _, ok := gate.Current(ctx, first.Token); ok {
			t.Error("Current() accepted a signed out session")
		}
		if _, ok := gate.Current(ctx, second.Token); !ok {
			t.Error("signing out one session ended another")
		}
	})

	t.Run("forged or malformed", func(t *testing.T) {
		gate, _ := newGate(t)
		s, _ := gate.SignIn(ctx, "correct horse")
		parts := strings.Split(s.Token, ".")
		tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

		otherHash, _ := session.HashPassword("correct horse")
		other, _ := session.NewJWTGate(otherHash, []byte("ffffffffffffffffffffffffffffffff"), time.Hour, testutil.FixedClock(), testutil.NewStubIDGenerator(), journal.NewNopLogger())
		foreign, _ := other.SignIn(ctx, "correct horse")

		for name, token := range map[string]string{
			"empty":       "",
			"garbage":     "not.a.token",
			"tampered":    tampered,
			"foreign key": foreign.Token,
		} {
			if _, ok := gate.Current(ctx, token); ok {
				t.Errorf("Current(%s) accepted the token", name)
			}
		}
	})

	t.Run("sign out of unknown token is ignored", func(t *testing.T) {
		gate, _ := newGate(t)
		if err := gate.SignOut(ctx, "nonsense"); err != nil {
			t.Errorf("SignOut() error = %v", err)
		}
	})
}
