package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kindredapp/kindred/internal/db"
	svcErr "github.com/kindredapp/kindred/internal/errors"
	"github.com/kindredapp/kindred/internal/utils/pagination"
)

// LikeRepository provides data access for the directed like and super-like
// edges between users. Edges are append-only; uniqueness per ordered pair is
// enforced by the composite primary keys.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// CreateLike inserts a liker -> likee edge.
//
// Behavior:
//   - Duplicate (liker_id, likee_id) inserts violate the composite PK and are
//     returned as ErrDuplicateEdge, never silently absorbed: the caller needs
//     to tell the user "already liked".
func (r *LikeRepository) CreateLike(ctx context.Context, like *db.Like) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return svcErr.ErrDuplicateEdge
		}
		return storageErr(err)
	}
	return nil
}

// CreateSuperLike inserts a super-like edge and spends one unit of the
// liker's quota in the same transaction.
//
// Behavior:
//   - The decrement is a guarded UPDATE (super_likes_left > 0); zero rows
//     affected means the quota is exhausted and nothing is written.
//   - A duplicate edge rolls the decrement back and returns ErrDuplicateEdge.
//   - Counter and edge count can never desync: both writes commit or neither.
func (r *LikeRepository) CreateSuperLike(ctx context.Context, edge *db.SuperLike) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db.User{}).
			Where("id = ? AND super_likes_left > 0", edge.LikerID).
			UpdateColumn("super_likes_left", gorm.Expr("super_likes_left - 1"))
		if res.Error != nil {
			return storageErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return svcErr.ErrQuotaExhausted
		}

		if err := tx.Create(edge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return svcErr.ErrDuplicateEdge
			}
			return storageErr(err)
		}
		return nil
	})
}

// HasReciprocalEdge checks whether likee has already liked liker back, via
// either edge kind. Called after an edge commit, so it always observes fresh
// datastore state.
func (r *LikeRepository) HasReciprocalEdge(ctx context.Context, likerID, likeeID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liker_id = ? AND likee_id = ?", likeeID, likerID).
		Count(&count).Error
	if err != nil {
		return false, storageErr(err)
	}
	if count > 0 {
		return true, nil
	}

	err = r.db.WithContext(ctx).
		Model(&db.SuperLike{}).
		Where("liker_id = ? AND likee_id = ?", likeeID, likerID).
		Count(&count).Error
	return count > 0, storageErr(err)
}

// GetLikers returns all users who liked the given recipient.
//
// Behavior:
//   - Excludes likers the recipient has blocked.
//   - Ordered by created_at DESC, liker_id DESC.
//   - Supports cursor-based pagination via paginationToken.
func (r *LikeRepository) GetLikers(
	ctx context.Context,
	likeeID uint64,
	paginationToken *string,
	limit int,
) ([]db.Like, *string, error) {
	var likes []db.Like

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, svcErr.InvalidArgument("invalid pagination token")
	}

	query := r.db.WithContext(ctx).
		Table("likes l").
		Where("l.likee_id = ?", likeeID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM blocks b
				WHERE b.blocker_id = ?
				  AND b.blocked_id = l.liker_id
			)`, likeeID).
		Order("l.created_at DESC, l.liker_id DESC").
		Limit(limit + 1)

	if cursor.LikerID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(l.created_at < ? OR (l.created_at = ? AND l.liker_id < ?))",
			ts, ts, cursor.LikerID,
		)
	}

	if err := query.Find(&likes).Error; err != nil {
		return nil, nil, storageErr(err)
	}

	var nextToken *string
	if len(likes) > limit {
		last := likes[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			LikerID:     last.LikerID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		likes = likes[:limit]
	}

	return likes, nextToken, nil
}

// GetNewLikers returns users who liked the recipient but are not matched with
// them yet.
//
// Behavior:
//   - Excludes pairs that already have a match row (canonical ordering means
//     exactly one of the two orientations can exist).
//   - Excludes likers the recipient has blocked.
//   - Same ordering and pagination as GetLikers.
func (r *LikeRepository) GetNewLikers(
	ctx context.Context,
	likeeID uint64,
	paginationToken *string,
	limit int,
) ([]db.Like, *string, error) {
	var likes []db.Like

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, svcErr.InvalidArgument("invalid pagination token")
	}

	query := r.db.WithContext(ctx).
		Table("likes l").
		Where("l.likee_id = ?", likeeID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM matches m
				WHERE (m.user_a_id = l.liker_id AND m.user_b_id = ?)
				   OR (m.user_a_id = ? AND m.user_b_id = l.liker_id)
			)`, likeeID, likeeID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM blocks b
				WHERE b.blocker_id = ?
				  AND b.blocked_id = l.liker_id
			)`, likeeID).
		Order("l.created_at DESC, l.liker_id DESC").
		Limit(limit + 1)

	if cursor.LikerID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(l.created_at < ? OR (l.created_at = ? AND l.liker_id < ?))",
			ts, ts, cursor.LikerID,
		)
	}

	if err := query.Find(&likes).Error; err != nil {
		return nil, nil, storageErr(err)
	}

	var nextToken *string
	if len(likes) > limit {
		last := likes[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			LikerID:     last.LikerID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		likes = likes[:limit]
	}

	return likes, nextToken, nil
}

// CountLikers returns how many users liked the given recipient, excluding
// blocked likers. Used in conjunction with the Redis cache (DB is fallback).
func (r *LikeRepository) CountLikers(ctx context.Context, likeeID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("likes l").
		Where("l.likee_id = ?", likeeID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM blocks b
				WHERE b.blocker_id = ?
				  AND b.blocked_id = l.liker_id
			)`, likeeID).
		Count(&count).Error
	if err != nil {
		return 0, storageErr(err)
	}
	return count, nil
}

// LikedUserIDs returns every user the liker has sent a like or super-like to.
// Feeds the candidate-pool exclusions.
func (r *LikeRepository) LikedUserIDs(ctx context.Context, likerID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liker_id = ?", likerID).
		Pluck("likee_id", &ids).Error
	if err != nil {
		return nil, storageErr(err)
	}

	var superIDs []uint64
	err = r.db.WithContext(ctx).
		Model(&db.SuperLike{}).
		Where("liker_id = ?", likerID).
		Pluck("likee_id", &superIDs).Error
	if err != nil {
		return nil, storageErr(err)
	}

	return append(ids, superIDs...), nil
}

// ListSuperLikesReceived returns super-likes sent to the recipient, newest
// first.
func (r *LikeRepository) ListSuperLikesReceived(ctx context.Context, likeeID uint64) ([]db.SuperLike, error) {
	var edges []db.SuperLike
	err := r.db.WithContext(ctx).
		Where("likee_id = ?", likeeID).
		Order("created_at DESC").
		Find(&edges).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return edges, nil
}

// MarkSuperLikesNotified flags the recipient's pending super-likes as seen.
func (r *LikeRepository) MarkSuperLikesNotified(ctx context.Context, likeeID uint64) error {
	return storageErr(r.db.WithContext(ctx).
		Model(&db.SuperLike{}).
		Where("likee_id = ? AND notified = ?", likeeID, false).
		Update("notified", true).Error)
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
