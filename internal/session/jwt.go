// Package session issues and checks admin sessions. There is one shared
// password, kept as a bcrypt hash, and sessions are HS256-signed JWTs.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"journal-go/internal/journal"
)

// Subject is the only identity a session can carry.
const Subject = "admin"

// JWTGate implements journal.SessionGate.
type JWTGate struct {
	hash   []byte
	key    []byte
	ttl    time.Duration
	clock  journal.Clock
	idgen  journal.IDGenerator
	logger journal.Logger

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiry
}

// NewJWTGate creates a gate checking passwords against passwordHash and
// signing tokens with signingKey.
func NewJWTGate(passwordHash string, signingKey []byte, ttl time.Duration, clock journal.Clock, idgen journal.IDGenerator, logger journal.Logger) (*JWTGate, error) {
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("invalid password hash: %w", err)
	}
	if len(signingKey) < 32 {
		return nil, fmt.Errorf("signing key must be at least 32 bytes, got %d", len(signingKey))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &JWTGate{
		hash:    []byte(passwordHash),
		key:     signingKey,
		ttl:     ttl,
		clock:   clock,
		idgen:   idgen,
		logger:  logger,
		revoked: map[string]time.Time{},
	}, nil
}

// HashPassword returns the bcrypt hash stored in the config file.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(h), nil
}

// SignIn issues a session when secret matches the configured password.
func (g *JWTGate) SignIn(_ context.Context, secret string) (*journal.Session, error) {
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(secret)); err != nil {
		g.logger.Warn("sign in refused")
		return nil, journal.ErrNotAuthenticated
	}

	now := g.clock.Now()
	claims := jwt.RegisteredClaims{
		ID:        g.idgen.New(),
		Subject:   Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.key)
	if err != nil {
		return nil, fmt.Errorf("signing session: %w", err)
	}

	g.logger.Info("signed in", "jti", claims.ID)
	return &journal.Session{
		Token:     token,
		Subject:   Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignOut revokes token until it would have expired anyway.
func (g *JWTGate) SignOut(_ context.Context, token string) error {
	claims, err := g.parse(token)
	if err != nil {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.prune()
	g.revoked[claims.ID] = claims.ExpiresAt.Time
	g.logger.Info("signed out", "jti", claims.ID)
	return nil
}

// Current returns the session for a valid, unexpired, unrevoked token.
func (g *JWTGate) Current(_ context.Context, token string) (*journal.Session, bool) {
	if token == "" {
		return nil, false
	}
	claims, err := g.parse(token)
	if err != nil {
		g.logger.Debug("session rejected", "error", err)
		return nil, false
	}

	s := &journal.Session{
		Token:     token,
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if !s.Active(g.clock.Now()) {
		return nil, false
	}

	g.mu.Lock()
	_, revoked := g.revoked[claims.ID]
	g.mu.Unlock()
	if revoked {
		return nil, false
	}
	return s, true
}

// parse checks the signature and required claims. Expiry is checked against
// the gate's clock by the caller.
func (g *JWTGate) parse(token string) (*jwt.RegisteredClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	claims := &jwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return g.key, nil
	})
	if err != nil {
		return nil, err
	}
	if claims.Subject != Subject || claims.ID == "" || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, errors.New("session token is missing claims")
	}
	return claims, nil
}

// prune drops revocations of tokens that have expired. Caller holds mu.
func (g *JWTGate) prune() {
	now := g.clock.Now()
	for id, exp := range g.revoked {
		if !now.Before(exp) {
			delete(g.revoked, id)
		}
	}
}

var _ journal.SessionGate = (*JWTGate)(nil)
