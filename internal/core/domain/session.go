package domain

import "time"

// StoredCookie is a backend cookie kept on behalf of a browser session
type StoredCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// SessionRecord is the persisted form of a dashboard session
type SessionRecord struct {
	User          *User          `json:"user,omitempty"`
	Cookies       []StoredCookie `json:"cookies,omitempty"`
	Notifications []Notification `json:"notifications,omitempty"`
	ExpiresAt     time.Time      `json:"expires_at"`
}
