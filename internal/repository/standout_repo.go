package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kindredapp/kindred/internal/db"
	svcErr "github.com/kindredapp/kindred/internal/errors"
)

// StandoutRepository provides data access for the per-(user, day) standout
// selections.
type StandoutRepository struct {
	db *gorm.DB
}

// NewStandoutRepository creates a new repository bound to the given DB connection.
func NewStandoutRepository(database *gorm.DB) *StandoutRepository {
	return &StandoutRepository{db: database}
}

// GetForDate returns the persisted selection for (userID, day), in ranked
// order (score desc, candidate id asc). Empty slice means no selection yet.
func (r *StandoutRepository) GetForDate(ctx context.Context, userID uint64, day time.Time) ([]db.Standout, error) {
	var rows []db.Standout
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, db.DayUTC(day)).
		Order("score DESC, candidate_user_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return rows, nil
}

// CreateBatch persists a day's selection atomically.
//
// Behavior:
//   - All rows insert in one transaction; a unique-index collision (another
//     request generated the same day concurrently) rolls the whole batch back
//     and surfaces as ErrDuplicateEdge for the caller to fall back on a read.
func (r *StandoutRepository) CreateBatch(ctx context.Context, rows []db.Standout) error {
	if len(rows) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return svcErr.ErrDuplicateEdge
	}
	return storageErr(err)
}

// GetByID fetches a selection row, scoped to its owner.
func (r *StandoutRepository) GetByID(ctx context.Context, id, userID uint64) (*db.Standout, error) {
	var row db.Standout
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrNotFound
		}
		return nil, storageErr(err)
	}
	return &row, nil
}

// UpdateFlags sets the viewed/liked flags on a selection row. Nil fields are
// left untouched; repeating the same update is a no-op.
func (r *StandoutRepository) UpdateFlags(ctx context.Context, id, userID uint64, viewed, liked *bool) (*db.Standout, error) {
	updates := map[string]interface{}{}
	if viewed != nil {
		updates["is_viewed"] = *viewed
	}
	if liked != nil {
		updates["is_liked"] = *liked
	}
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&db.Standout{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates)
		if res.Error != nil {
			return nil, storageErr(res.Error)
		}
	}
	return r.GetByID(ctx, id, userID)
}
