package repositories

import (
	"context"

	"edupayhub/internal/core/domain"
)

// SessionRepository defines dashboard session persistence.
// Keys are hashed session ids (see pkg/tokenhash).
type SessionRepository interface {
	// Get returns domain.ErrSessionNotFound for unknown or expired keys
	Get(ctx context.Context, key string) (*domain.SessionRecord, error)
	Save(ctx context.Context, key string, record *domain.SessionRecord) error
	Delete(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
