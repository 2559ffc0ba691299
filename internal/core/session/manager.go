package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"edupayhub/internal/adapters/persistence/repositories"
	"edupayhub/internal/core/domain"
	"edupayhub/internal/pkg/jwt"
	"edupayhub/internal/pkg/metrics"
	"edupayhub/internal/pkg/tokenhash"

	"github.com/google/uuid"
)

// Manager owns every live session. It is created once at application start
// and injected wherever sessions are resolved.
type Manager struct {
	repo   repositories.SessionRepository
	secret string
	ttl    time.Duration
	now    func() time.Time

	mu   sync.Mutex
	live map[string]*Session
}

// NewManager creates a session manager writing through to repo
func NewManager(repo repositories.SessionRepository, secret string, ttl time.Duration) *Manager {
	return &Manager{
		repo:   repo,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
		live:   make(map[string]*Session),
	}
}

// Create starts an empty session and returns it with its signed cookie token
func (m *Manager) Create(ctx context.Context) (*Session, string, error) {
	id := uuid.NewString()
	expiresAt := m.now().Add(m.ttl)

	token, err := jwt.GenerateSessionToken(id, m.secret, expiresAt)
	if err != nil {
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}

	s := New(id, expiresAt)
	if err := m.repo.Save(ctx, tokenhash.Hash(id), s.Record()); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrSessionUnavailable, err)
	}

	m.mu.Lock()
	m.live[id] = s
	metrics.LiveSessions.Set(float64(len(m.live)))
	m.mu.Unlock()

	return s, token, nil
}

// Resolve maps a cookie token to a session and its guard state.
// A missing, forged, expired or unknown token resolves to StateAnonymous
// with a nil session. Store failures resolve to StateUnresolved.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, State, error) {
	if token == "" {
		return nil, StateAnonymous, nil
	}

	claims, err := jwt.ValidateSessionToken(token, m.secret)
	if err != nil {
		return nil, StateAnonymous, nil
	}

	m.mu.Lock()
	s, ok := m.live[claims.SessionID]
	m.mu.Unlock()
	if ok {
		if s.Expired(m.now()) {
			m.forget(s.ID())
			return nil, StateAnonymous, nil
		}
		return s, s.State(), nil
	}

	rec, err := m.repo.Get(ctx, tokenhash.Hash(claims.SessionID))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, StateAnonymous, nil
		}
		return nil, StateUnresolved, fmt.Errorf("%w: %v", domain.ErrSessionUnavailable, err)
	}

	s = FromRecord(claims.SessionID, rec)
	m.mu.Lock()
	if existing, ok := m.live[claims.SessionID]; ok {
		s = existing
	} else {
		m.live[claims.SessionID] = s
	}
	metrics.LiveSessions.Set(float64(len(m.live)))
	m.mu.Unlock()

	return s, s.State(), nil
}

// Save writes the session through to the repository
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if err := m.repo.Save(ctx, tokenhash.Hash(s.ID()), s.Record()); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSessionUnavailable, err)
	}
	return nil
}

// Teardown ends the signed-in part of a session: identity, backend
// cookies and the transaction view are dropped. Queued notifications stay
// so the sign-in page can show them.
func (m *Manager) Teardown(ctx context.Context, s *Session) error {
	s.ResetUser()
	s.ClearCookies()
	s.ResetView()
	return m.Save(ctx, s)
}

// Sweep evicts expired sessions from memory and from the repository and
// returns how many distinct sessions were removed. Evicted live sessions
// are deleted by key first so DeleteExpired only counts the leftovers.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	now := m.now()

	m.mu.Lock()
	var evicted []string
	for id, s := range m.live {
		if s.Expired(now) {
			delete(m.live, id)
			evicted = append(evicted, id)
		}
	}
	metrics.LiveSessions.Set(float64(len(m.live)))
	m.mu.Unlock()

	var total int64
	for _, id := range evicted {
		if err := m.repo.Delete(ctx, tokenhash.Hash(id)); err != nil {
			metrics.SessionsSwept.Add(float64(total))
			return total, fmt.Errorf("delete session: %w", err)
		}
		total++
	}

	removed, err := m.repo.DeleteExpired(ctx)
	if err != nil {
		metrics.SessionsSwept.Add(float64(total))
		return total, err
	}
	total += removed
	metrics.SessionsSwept.Add(float64(total))
	return total, nil
}

// Ping checks the session repository
func (m *Manager) Ping(ctx context.Context) error {
	return m.repo.Ping(ctx)
}

// LiveCount returns the number of sessions held in memory
func (m *Manager) LiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// TTL returns the session lifetime
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) forget(id string) {
	m.mu.Lock()
	delete(m.live, id)
	metrics.LiveSessions.Set(float64(len(m.live)))
	m.mu.Unlock()
}
