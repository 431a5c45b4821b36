package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kindredapp/kindred/internal/db"
)

// BoostRepository provides data access for profile boosts.
type BoostRepository struct {
	db *gorm.DB
}

// NewBoostRepository creates a new repository bound to the given DB connection.
func NewBoostRepository(database *gorm.DB) *BoostRepository {
	return &BoostRepository{db: database}
}

// ActiveBoost returns the user's current unexpired boost, or nil.
func (r *BoostRepository) ActiveBoost(ctx context.Context, userID uint64, now time.Time) (*db.Boost, error) {
	var boost db.Boost
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND expires_at > ?", userID, true, now).
		Order("started_at DESC").
		First(&boost).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &boost, nil
}

// Create persists a new boost.
func (r *BoostRepository) Create(ctx context.Context, boost *db.Boost) error {
	return storageErr(r.db.WithContext(ctx).Create(boost).Error)
}

// DeactivateExpired clears the active flag on the user's lapsed boosts.
func (r *BoostRepository) DeactivateExpired(ctx context.Context, userID uint64, now time.Time) error {
	return storageErr(r.db.WithContext(ctx).
		Model(&db.Boost{}).
		Where("user_id = ? AND is_active = ? AND expires_at <= ?", userID, true, now).
		Update("is_active", false).Error)
}
