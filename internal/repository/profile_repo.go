package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kindredapp/kindred/internal/db"
	svcErr "github.com/kindredapp/kindred/internal/errors"
)

// ProfileRepository provides data access for profiles and the candidate-pool
// queries behind the feed and the standout ranker.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// GetByUserID fetches a user's profile with prompts.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uint64) (*db.Profile, error) {
	var profile db.Profile
	err := r.db.WithContext(ctx).
		Preload("Prompts", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC, id ASC") }).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrNotFound
		}
		return nil, storageErr(err)
	}
	return &profile, nil
}

// GetManyByUserIDs fetches profiles with prompts for a set of users.
func (r *ProfileRepository) GetManyByUserIDs(ctx context.Context, userIDs []uint64) ([]db.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Preload("Prompts", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC, id ASC") }).
		Where("user_id IN ?", userIDs).
		Find(&profiles).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return profiles, nil
}

// FeedCandidates returns profiles for the feed: inside the viewer's birthdate
// window, excluding the given user ids, most recently updated first.
//
// The age filter is one-directional: only the viewer's preference range is
// applied; candidates' own ranges do not gate inclusion here.
func (r *ProfileRepository) FeedCandidates(
	ctx context.Context,
	excludeUserIDs []uint64,
	minBirthdate, maxBirthdate time.Time,
	limit int,
) ([]db.Profile, error) {
	var profiles []db.Profile
	query := r.db.WithContext(ctx).
		Preload("Prompts", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC, id ASC") }).
		Where("birthdate >= ? AND birthdate <= ?", minBirthdate, maxBirthdate).
		Order("updated_at DESC").
		Limit(limit)
	if len(excludeUserIDs) > 0 {
		query = query.Where("user_id NOT IN ?", excludeUserIDs)
	}
	err := query.Find(&profiles).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return profiles, nil
}

// StandoutCandidates returns the bounded scan pool for standout generation:
// everyone except the excluded ids, capped at limit. The cap is a sampling
// policy, not a correctness requirement.
func (r *ProfileRepository) StandoutCandidates(
	ctx context.Context,
	excludeUserIDs []uint64,
	limit int,
) ([]db.Profile, error) {
	var profiles []db.Profile
	query := r.db.WithContext(ctx).
		Preload("Prompts", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC, id ASC") }).
		Order("user_id ASC").
		Limit(limit)
	if len(excludeUserIDs) > 0 {
		query = query.Where("user_id NOT IN ?", excludeUserIDs)
	}
	err := query.Find(&profiles).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return profiles, nil
}

// CreateBlock records that blocker does not want to see blocked anywhere.
// Repeating an existing block reports ErrDuplicateEdge.
func (r *ProfileRepository) CreateBlock(ctx context.Context, blockerID, blockedID uint64) error {
	err := r.db.WithContext(ctx).Create(&db.Block{BlockerID: blockerID, BlockedID: blockedID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return svcErr.ErrDuplicateEdge
	}
	return storageErr(err)
}

// DeleteBlock removes a block. Deleting a block that does not exist is a
// no-op.
func (r *ProfileRepository) DeleteBlock(ctx context.Context, blockerID, blockedID uint64) error {
	return storageErr(r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&db.Block{}).Error)
}

// BlockedUserIDs returns the ids the given user has blocked.
func (r *ProfileRepository) BlockedUserIDs(ctx context.Context, blockerID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Block{}).
		Where("blocker_id = ?", blockerID).
		Pluck("blocked_id", &ids).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return ids, nil
}

// Save persists profile changes.
func (r *ProfileRepository) Save(ctx context.Context, profile *db.Profile) error {
	return storageErr(r.db.WithContext(ctx).Omit("Prompts").Save(profile).Error)
}

// ReplacePrompts swaps the profile's prompt set atomically.
func (r *ProfileRepository) ReplacePrompts(ctx context.Context, profileID uint64, prompts []db.ProfilePrompt) error {
	return storageErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).Delete(&db.ProfilePrompt{}).Error; err != nil {
			return err
		}
		if len(prompts) == 0 {
			return nil
		}
		for i := range prompts {
			prompts[i].ProfileID = profileID
			prompts[i].Position = i
		}
		return tx.Create(&prompts).Error
	}))
}
