package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kindredapp/kindred/internal/db"
	svcErr "github.com/kindredapp/kindred/internal/errors"
)

// Super-like daily allotments per tier.
const (
	SuperLikeQuotaFree    = 5
	SuperLikeQuotaPremium = 10

	superLikeResetWindow = 24 * time.Hour
)

// UserRepository provides data access for user accounts and the super-like
// quota fields.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// GetByID fetches a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrNotFound
		}
		return nil, storageErr(err)
	}
	return &user, nil
}

// ResetSuperLikesIfDue refills the user's super-like quota when the 24h
// window has elapsed.
//
// Behavior:
//   - Single guarded UPDATE keyed on super_likes_reset_at, so concurrent
//     reset-eligible requests apply the refill at most once per window.
//   - The tier allotment is resolved inside the statement, keeping the
//     premium check and the refill atomic.
//   - Runs before quota availability is evaluated for the current action.
func (r *UserRepository) ResetSuperLikesIfDue(ctx context.Context, userID uint64, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ? AND super_likes_reset_at <= ?", userID, now.Add(-superLikeResetWindow)).
		Updates(map[string]interface{}{
			"super_likes_left": gorm.Expr(
				"CASE WHEN is_premium THEN ? ELSE ? END",
				SuperLikeQuotaPremium, SuperLikeQuotaFree,
			),
			"super_likes_reset_at": now,
		})
	if res.Error != nil {
		return false, storageErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Exists reports whether a user id refers to an account.
func (r *UserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, storageErr(err)
}
