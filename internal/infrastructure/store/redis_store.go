// Package store provides the durable SessionStore implementations. All
// of them keep a single serialized record under one fixed key and fail
// soft on anything they cannot trust: a corrupted or role-invalid
// record is purged and reported as absent.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/you/clinicgate/domain"
)

// DefaultKey is the storage key the session record lives under.
const DefaultKey = "clinicgate:session"

// RedisStore implements domain.SessionStore on a Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
	log    *zap.Logger
}

// NewRedisStore creates a redis-backed session store. An empty key
// selects DefaultKey.
func NewRedisStore(client *redis.Client, key string, log *zap.Logger) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisStore{client: client, key: key, log: log}
}

// Load implements domain.SessionStore.
func (s *RedisStore) Load(ctx context.Context) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session record: %w", err)
	}

	sess, ok := decode([]byte(data), s.log)
	if !ok {
		// Purge the record we could not trust.
		s.client.Del(ctx, s.key)
		return nil, nil
	}
	return sess, nil
}

// Save implements domain.SessionStore.
func (s *RedisStore) Save(ctx context.Context, sess *domain.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

// Clear implements domain.SessionStore.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// decode unmarshals and validates a persisted record. It reports
// failure instead of returning an error because the store contract is
// to treat bad bytes as absent.
func decode(data []byte, log *zap.Logger) (*domain.Session, bool) {
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		log.Warn("purging corrupted session record", zap.Error(err))
		return nil, false
	}
	if err := sess.Validate(); err != nil {
		log.Warn("purging session record with invalid contents",
			zap.Error(err), zap.String("role", sess.Role.String()))
		return nil, false
	}
	return &sess, true
}
