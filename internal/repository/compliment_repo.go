package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kindredapp/kindred/internal/db"
	svcErr "github.com/kindredapp/kindred/internal/errors"
)

// ComplimentRepository provides data access for compliments.
type ComplimentRepository struct {
	db *gorm.DB
}

// NewComplimentRepository creates a new repository bound to the given DB connection.
func NewComplimentRepository(database *gorm.DB) *ComplimentRepository {
	return &ComplimentRepository{db: database}
}

// Create persists a compliment. A second compliment for the same
// (sender, receiver, day) violates the unique index and is reported as
// ErrDuplicateEdge; concurrent same-day sends cannot both land.
func (r *ComplimentRepository) Create(ctx context.Context, compliment *db.Compliment) error {
	if err := r.db.WithContext(ctx).Create(compliment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return svcErr.ErrDuplicateEdge
		}
		return storageErr(err)
	}
	return nil
}

// ListReceived returns compliments sent to the receiver, newest first.
func (r *ComplimentRepository) ListReceived(ctx context.Context, receiverID uint64) ([]db.Compliment, error) {
	var compliments []db.Compliment
	err := r.db.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC, id DESC").
		Find(&compliments).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return compliments, nil
}
