package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/clinicgate/domain"
)

// TokenRegistryImpl implements domain.TokenRegistry using Redis. Issued
// bearer tokens are tracked by their jti so logout can revoke them
// before expiry.
type TokenRegistryImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewTokenRegistry creates a new token registry. The ttl should match
// the token lifetime so revocation records expire with their tokens.
func NewTokenRegistry(client *redis.Client, ttl time.Duration) domain.TokenRegistry {
	return &TokenRegistryImpl{
		client: client,
		prefix: "token:",
		ttl:    ttl,
	}
}

// Put implements domain.TokenRegistry
func (r *TokenRegistryImpl) Put(ctx context.Context, tokenID, userID string) error {
	key := r.prefix + tokenID
	if err := r.client.Set(ctx, key, userID, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to register token: %w", err)
	}
	return nil
}

// Lookup implements domain.TokenRegistry
func (r *TokenRegistryImpl) Lookup(ctx context.Context, tokenID string) (string, error) {
	key := r.prefix + tokenID
	userID, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", domain.ErrTokenRevoked
		}
		return "", err
	}
	return userID, nil
}

// Revoke implements domain.TokenRegistry
func (r *TokenRegistryImpl) Revoke(ctx context.Context, tokenID string) error {
	return r.client.Del(ctx, r.prefix+tokenID).Err()
}
