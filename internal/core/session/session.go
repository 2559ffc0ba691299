// Package session holds the dashboard's belief about who is signed in.
// A Session is created per browser by the Manager and passed explicitly to
// the guards, auth flows and dashboard handlers.
package session

import (
	"net/http"
	"sync"
	"time"

	"edupayhub/internal/core/domain"
	"edupayhub/internal/core/viewmodel"
)

// State is the route-guard view of a session
type State int

const (
	// StateUnresolved means identity could not be determined (store down)
	StateUnresolved State = iota
	// StateAnonymous means there is no signed-in user
	StateAnonymous
	// StateAuthenticated means a user is set
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unresolved"
	}
}

// Session is the per-browser session store.
// Invariant: exists == (user != nil) outside of the lock.
type Session struct {
	mu            sync.RWMutex
	id            string
	user          *domain.User
	exists        bool
	loading       bool
	cookies       []*http.Cookie
	notifications []domain.Notification
	view          *viewmodel.TransactionView
	expiresAt     time.Time
}

// New creates an empty session
func New(id string, expiresAt time.Time) *Session {
	return &Session{id: id, expiresAt: expiresAt}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// ExpiresAt returns when the session stops being valid
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Expired reports whether the session is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt())
}

// SetUser replaces the identity wholesale and marks the session as existing
func (s *Session) SetUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := user
	s.user = &u
	s.exists = true
}

// ResetUser clears the identity
func (s *Session) ResetUser() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.exists = false
}

// SetLoading records whether an auth request is in flight
func (s *Session) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

// Loading reports the in-flight flag
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// User returns a copy of the current user
func (s *Session) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// Exists reports whether a user is signed in
func (s *Session) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exists
}

// State returns Authenticated or Anonymous
func (s *Session) State() State {
	if s.Exists() {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Cookies returns the backend cookies to replay on credentialed calls
func (s *Session) Cookies() []*http.Cookie {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*http.Cookie, len(s.cookies))
	copy(out, s.cookies)
	return out
}

// SetCookies merges cookies set by the backend. Cookies with the same name
// are replaced; deleted cookies (MaxAge < 0 or empty value) are dropped.
func (s *Session) SetCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range cookies {
		kept := s.cookies[:0]
		for _, existing := range s.cookies {
			if existing.Name != c.Name {
				kept = append(kept, existing)
			}
		}
		s.cookies = kept
		if c.MaxAge < 0 || c.Value == "" {
			continue
		}
		s.cookies = append(s.cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires})
	}
}

// ClearCookies forgets every backend cookie
func (s *Session) ClearCookies() {
	s.mu.Lock()
	s.cookies = nil
	s.mu.Unlock()
}

// Notify queues a notification for the next render
func (s *Session) Notify(n domain.Notification) {
	if n.Variant == "" {
		n.Variant = domain.VariantDefault
	}
	s.mu.Lock()
	s.notifications = append(s.notifications, n)
	s.mu.Unlock()
}

// DrainNotifications returns and clears the queued notifications
func (s *Session) DrainNotifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.notifications
	s.notifications = nil
	return out
}

// View returns the transaction view, creating it on first use
func (s *Session) View() *viewmodel.TransactionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view == nil {
		s.view = viewmodel.New()
	}
	return s.view
}

// ResetView drops the transaction view
func (s *Session) ResetView() {
	s.mu.Lock()
	s.view = nil
	s.mu.Unlock()
}

// Record returns the persisted form of the session
func (s *Session) Record() *domain.SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := &domain.SessionRecord{ExpiresAt: s.expiresAt}
	if s.user != nil {
		u := *s.user
		rec.User = &u
	}
	for _, c := range s.cookies {
		rec.Cookies = append(rec.Cookies, domain.StoredCookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires})
	}
	rec.Notifications = append(rec.Notifications, s.notifications...)
	return rec
}

// FromRecord rebuilds a session from its persisted form
func FromRecord(id string, rec *domain.SessionRecord) *Session {
	s := New(id, rec.ExpiresAt)
	if rec.User != nil {
		s.SetUser(*rec.User)
	}
	for _, c := range rec.Cookies {
		s.cookies = append(s.cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires})
	}
	s.notifications = append(s.notifications, rec.Notifications...)
	return s
}
