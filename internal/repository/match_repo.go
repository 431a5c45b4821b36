package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kindredapp/kindred/internal/db"
	svcErr "github.com/kindredapp/kindred/internal/errors"
)

// MatchRepository provides data access for matches and their messages.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CreateOrGet creates the match for the unordered (a, b) pair, or fetches the
// existing one.
//
// Behavior:
//   - The pair is stored canonically via db.CanonicalPair, so both like
//     orders resolve to the same row.
//   - A lost race on the unique pair index surfaces as gorm.ErrDuplicatedKey;
//     the loser falls back to reading the winner's row instead of erroring.
//     The returned bool reports whether this call created the match.
func (r *MatchRepository) CreateOrGet(
	ctx context.Context,
	userA, userB, initiatorID uint64,
	expiresAt time.Time,
) (*db.Match, bool, error) {
	a, b := db.CanonicalPair(userA, userB)
	match := db.Match{
		UserAID:     a,
		UserBID:     b,
		InitiatorID: initiatorID,
		ExpiresAt:   &expiresAt,
	}

	err := r.db.WithContext(ctx).Create(&match).Error
	if err == nil {
		return &match, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, storageErr(err)
	}

	existing, err := r.GetByUsers(ctx, a, b)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetByID fetches a match by primary key.
func (r *MatchRepository) GetByID(ctx context.Context, id uint64) (*db.Match, error) {
	var match db.Match
	err := r.db.WithContext(ctx).First(&match, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrNotFound
		}
		return nil, storageErr(err)
	}
	return &match, nil
}

// GetByUsers fetches the match for an unordered user pair.
func (r *MatchRepository) GetByUsers(ctx context.Context, userA, userB uint64) (*db.Match, error) {
	a, b := db.CanonicalPair(userA, userB)
	var match db.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrNotFound
		}
		return nil, storageErr(err)
	}
	return &match, nil
}

// ListForUser returns the user's matches, newest first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID uint64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return matches, nil
}

// SetExpiry updates the reply-window deadline.
func (r *MatchRepository) SetExpiry(ctx context.Context, matchID uint64, expiresAt time.Time) error {
	return storageErr(r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("id = ?", matchID).
		Update("expires_at", expiresAt).Error)
}

// Rematch opens a fresh reply window on an expired match and clears the
// first-message flag.
func (r *MatchRepository) Rematch(ctx context.Context, matchID uint64, expiresAt time.Time) error {
	return storageErr(r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("id = ?", matchID).
		Updates(map[string]interface{}{
			"expires_at":        expiresAt,
			"has_first_message": false,
		}).Error)
}

// CreateMessage appends a message and flips the match's first-message flag in
// one transaction when needed.
func (r *MatchRepository) CreateMessage(ctx context.Context, msg *db.Message) error {
	return storageErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&db.Match{}).
			Where("id = ? AND has_first_message = ?", msg.MatchID, false).
			Update("has_first_message", true).Error
	}))
}

// ListMessages returns a match's messages in send order.
func (r *MatchRepository) ListMessages(ctx context.Context, matchID uint64) ([]db.Message, error) {
	var messages []db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("sent_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return messages, nil
}

// LastMessage returns the most recent message of a match, or nil.
func (r *MatchRepository) LastMessage(ctx context.Context, matchID uint64) (*db.Message, error) {
	var msg db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("sent_at DESC, id DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &msg, nil
}
