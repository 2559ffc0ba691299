package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"edupayhub/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

const redisSessionPrefix = "edupay:session:"

// redisSessionRepository stores JSON session records with a TTL
type redisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a redis-backed session repository
func NewRedisSessionRepository(client *redis.Client) SessionRepository {
	return &redisSessionRepository{client: client}
}

// Get gets a session record by key
func (r *redisSessionRepository) Get(ctx context.Context, key string) (*domain.SessionRecord, error) {
	raw, err := r.client.Get(ctx, redisSessionPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var rec domain.SessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if time.Now().After(rec.ExpiresAt) {
		return nil, domain.ErrSessionNotFound
	}
	return &rec, nil
}

// Save writes a record that expires with the session
func (r *redisSessionRepository) Save(ctx context.Context, key string, record *domain.SessionRecord) error {
	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return r.Delete(ctx, key)
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisSessionPrefix+key, raw, ttl).Err()
}

// Delete removes a session record
func (r *redisSessionRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, redisSessionPrefix+key).Err()
}

// DeleteExpired is a no-op: redis expires keys itself
func (r *redisSessionRepository) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

// Ping checks the redis connection
func (r *redisSessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
