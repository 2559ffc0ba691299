package repositories

import (
	"context"
	"errors"
	"time"

	"edupayhub/internal/adapters/persistence/models"
	"edupayhub/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sessionRepository implements SessionRepository on MySQL via gorm
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new gorm-backed session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Get gets a live session by its token hash
func (r *sessionRepository) Get(ctx context.Context, key string) (*domain.SessionRecord, error) {
	var row models.DashboardSession
	err := r.db.WithContext(ctx).
		Where("token_hash = ?", key).
		Where("expires_at > ?", time.Now()).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return row.ToRecord()
}

// Save upserts a session row
func (r *sessionRepository) Save(ctx context.Context, key string, record *domain.SessionRecord) error {
	var row models.DashboardSession
	if err := row.FromRecord(key, record); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{"has_user", "user_id", "email", "role", "school_id", "cookies", "notifications", "expires_at", "updated_at"}),
		}).
		Create(&row).Error
}

// Delete removes a session row
func (r *sessionRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("token_hash = ?", key).
		Delete(&models.DashboardSession{}).Error
}

// DeleteExpired deletes all expired sessions (cleanup job)
func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.DashboardSession{})
	return result.RowsAffected, result.Error
}

// Ping checks the database connection
func (r *sessionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
