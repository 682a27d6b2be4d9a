package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalid is an exported constant or variable used by the token manager.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired is an exported constant or variable used by the token manager.
	ErrExpired = errors.New("token expired")
	// ErrSubjectMismatch is an exported constant or variable used by the token manager.
	ErrSubjectMismatch = errors.New("token subject mismatch")
)

// Config defines a public type used by dashkit APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// Secret signs and verifies HS256 tokens. Required.
	Secret []byte
	// TTL bounds minted auth tokens.
	TTL time.Duration
	// Issuer is stamped into and checked on every token when non-empty.
	Issuer string
	// Leeway tolerates clock skew during verification. Capped at 2 minutes.
	Leeway time.Duration
}

// Claims defines a public type used by dashkit APIs.
//
// Claims carries the identity fields the push service mints on login.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager defines a public type used by dashkit APIs.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	config Config
}

// NewManager describes the newmanager operation and its observable behavior.
//
// NewManager may return an error when input validation, dependency calls, or security checks fail.
// NewManager does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("hs256 requires a secret")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	return &Manager{config: cfg}, nil
}

// Mint creates a signed auth token for a user, the shape the push service
// issues on login.
//
// Mint may return an error when input validation, dependency calls, or security checks fail.
// Mint does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Mint(userID, username string) (string, error) {
	if m == nil {
		return "", ErrInvalid
	}

	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.Secret)
}

// Verify parses and validates a signed auth token and returns its claims.
//
// Verify may return an error when input validation, dependency calls, or security checks fail.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	if m == nil {
		return nil, ErrInvalid
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(m.config.Leeway),
	}
	if m.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.config.Issuer))
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}

	return claims, nil
}

// MintCSRF creates a stateless CSRF token bound to a session id: a short-TTL
// signed token whose subject is the session. The server keeps nothing.
//
// MintCSRF may return an error when input validation, dependency calls, or security checks fail.
// MintCSRF does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) MintCSRF(sessionID string, ttl time.Duration) (string, error) {
	if m == nil {
		return "", ErrInvalid
	}
	if ttl <= 0 {
		return "", errors.New("invalid TTL configuration")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		Issuer:    m.config.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.Secret)
}

// VerifyCSRF validates a stateless CSRF token against the session id it must
// be bound to.
//
// VerifyCSRF may return an error when input validation, dependency calls, or security checks fail.
// VerifyCSRF does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) VerifyCSRF(tokenString, sessionID string) error {
	if m == nil {
		return ErrInvalid
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(m.config.Leeway),
	}
	if m.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.config.Issuer))
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpired
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !parsed.Valid {
		return ErrInvalid
	}
	if claims.Subject != sessionID {
		return ErrSubjectMismatch
	}

	return nil
}
