package models

import (
	"encoding/json"
	"time"

	"edupayhub/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardSession represents dashboard_sessions table
type DashboardSession struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TokenHash     string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	HasUser       bool      `gorm:"not null;default:false" json:"has_user"`
	UserID        string    `gorm:"size:64;index" json:"user_id"`
	Email         string    `gorm:"size:255" json:"email"`
	Role          string    `gorm:"size:20" json:"role"`
	SchoolID      string    `gorm:"size:64" json:"school_id"`
	Cookies       string    `gorm:"type:text" json:"-"`
	Notifications string    `gorm:"type:text" json:"-"`
	ExpiresAt     time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DashboardSession) TableName() string {
	return "dashboard_sessions"
}

// FromRecord fills the row from a domain record
func (s *DashboardSession) FromRecord(key string, rec *domain.SessionRecord) error {
	cookies, err := json.Marshal(rec.Cookies)
	if err != nil {
		return err
	}
	notifications, err := json.Marshal(rec.Notifications)
	if err != nil {
		return err
	}

	s.TokenHash = key
	s.HasUser = rec.User != nil
	s.UserID, s.Email, s.Role, s.SchoolID = "", "", "", ""
	if rec.User != nil {
		s.UserID = rec.User.ID
		s.Email = rec.User.Email
		s.Role = string(rec.User.Role)
		s.SchoolID = rec.User.SchoolID
	}
	s.Cookies = string(cookies)
	s.Notifications = string(notifications)
	s.ExpiresAt = rec.ExpiresAt
	return nil
}

// ToRecord converts the row to a domain record
func (s *DashboardSession) ToRecord() (*domain.SessionRecord, error) {
	rec := &domain.SessionRecord{ExpiresAt: s.ExpiresAt}
	// HasUser, not UserID: the backend may sign in a user without an id
	if s.HasUser {
		rec.User = &domain.User{
			ID:       s.UserID,
			Email:    s.Email,
			Role:     domain.Role(s.Role),
			SchoolID: s.SchoolID,
		}
	}
	if s.Cookies != "" {
		if err := json.Unmarshal([]byte(s.Cookies), &rec.Cookies); err != nil {
			return nil, err
		}
	}
	if s.Notifications != "" {
		if err := json.Unmarshal([]byte(s.Notifications), &rec.Notifications); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// AutoMigrate runs auto migration for the session tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&DashboardSession{},
	)
}
