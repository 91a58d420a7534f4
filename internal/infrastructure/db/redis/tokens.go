package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/terangafund/citizen-projects/internal/core/domain"
)

const (
	verificationTTL = 24 * time.Hour
	resetTTL        = time.Hour
)

// TokenStore keeps one-time account tokens in Redis with a TTL, so expiry is
// enforced by the store itself and consuming a token deletes it atomically.
// Key format: verify:<token> and reset:<token>, value is the user id.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a TokenStore wrapping the given Redis client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) CreateVerificationToken(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, verifyKey(token), userID, verificationTTL).Err(); err != nil {
		return "", fmt.Errorf("token create: %w", err)
	}
	return token, nil
}

// ConsumeVerificationToken resolves the token to a user id and invalidates it
// in the same round trip. Unknown or expired tokens yield
// domain.ErrTokenInvalid.
func (s *TokenStore) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	return s.consume(ctx, verifyKey(token))
}

func (s *TokenStore) CreateResetToken(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, resetKey(token), userID, resetTTL).Err(); err != nil {
		return "", fmt.Errorf("token create: %w", err)
	}
	return token, nil
}

func (s *TokenStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	return s.consume(ctx, resetKey(token))
}

func (s *TokenStore) consume(ctx context.Context, key string) (string, error) {
	userID, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrTokenInvalid
		}
		return "", fmt.Errorf("token consume: %w", err)
	}
	return userID, nil
}

func verifyKey(token string) string { return "verify:" + token }
func resetKey(token string) string  { return "reset:" + token }
