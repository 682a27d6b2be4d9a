package store

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("csrf token not found")
	ErrTokenMismatch    = errors.New("csrf token mismatch")
	ErrRedisUnavailable = errors.New("csrf redis unavailable")
)

// TokenStore keeps one opaque CSRF token per session in redis, expiring
// after the configured TTL. Issue overwrites any previous token for the
// session; Verify compares in constant time.
type TokenStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewTokenStore(redisClient redis.UniversalClient, prefix string) *TokenStore {
	if prefix == "" {
		prefix = "csrf"
	}
	return &TokenStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *TokenStore) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

func (s *TokenStore) Issue(ctx context.Context, sessionID string, ttl time.Duration) (string, error) {
	token := uuid.NewString()

	if err := s.redis.Set(ctx, s.key(sessionID), token, ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return token, nil
}

func (s *TokenStore) Verify(ctx context.Context, sessionID, token string) error {
	stored, err := s.redis.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrTokenNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return ErrTokenMismatch
	}

	return nil
}

func (s *TokenStore) Revoke(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
