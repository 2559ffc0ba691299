package repositories

import (
	"context"
	"sync"
	"time"

	"edupayhub/internal/core/domain"
)

// memorySessionRepository keeps sessions in process memory
type memorySessionRepository struct {
	mu      sync.RWMutex
	records map[string]domain.SessionRecord
	now     func() time.Time
}

// NewMemorySessionRepository creates an in-memory session repository.
// Sessions are lost on restart.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		records: make(map[string]domain.SessionRecord),
		now:     time.Now,
	}
}

// Get gets a session record by key
func (r *memorySessionRepository) Get(_ context.Context, key string) (*domain.SessionRecord, error) {
	r.mu.RLock()
	rec, ok := r.records[key]
	r.mu.RUnlock()

	if !ok || r.now().After(rec.ExpiresAt) {
		return nil, domain.ErrSessionNotFound
	}
	return &rec, nil
}

// Save creates or replaces a session record
func (r *memorySessionRepository) Save(_ context.Context, key string, record *domain.SessionRecord) error {
	r.mu.Lock()
	r.records[key] = *record
	r.mu.Unlock()
	return nil
}

// Delete removes a session record
func (r *memorySessionRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.records, key)
	r.mu.Unlock()
	return nil
}

// DeleteExpired deletes all expired records (cleanup job)
func (r *memorySessionRepository) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var removed int64
	for key, rec := range r.records {
		if now.After(rec.ExpiresAt) {
			delete(r.records, key)
			removed++
		}
	}
	return removed, nil
}

// Ping always succeeds
func (r *memorySessionRepository) Ping(_ context.Context) error {
	return nil
}
