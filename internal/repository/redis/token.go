package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/farmdiary/api/pkg/errors"
)

// RefreshTokenStore implements repository.RefreshTokenStore on Redis.
// Each user has at most one record under refresh_token:<id>; SET with a TTL
// gives atomic last-writer-wins upsert and store-side expiry for free.
type RefreshTokenStore struct {
	client *redis.Client
}

// NewRefreshTokenStore creates a Redis-backed refresh token store.
func NewRefreshTokenStore(client *redis.Client) *RefreshTokenStore {
	return &RefreshTokenStore{client: client}
}

func tokenKey(userID int64) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}

// Upsert replaces the stored refresh token for the user with the given TTL.
func (s *RefreshTokenStore) Upsert(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	return nil
}

// Find returns the stored refresh token for the user, or ErrNotFound when no
// record exists or its TTL has elapsed.
func (s *RefreshTokenStore) Find(ctx context.Context, userID int64) (string, error) {
	token, err := s.client.Get(ctx, tokenKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("get refresh token: %w", err)
	}
	return token, nil
}

// Delete removes the stored refresh token for the user, if any.
func (s *RefreshTokenStore) Delete(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, tokenKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
