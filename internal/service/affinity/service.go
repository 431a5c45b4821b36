package affinity

import (
	"context"
	"errors"
	"time"

	"github.com/kindredapp/kindred/internal/app"
	"github.com/kindredapp/kindred/internal/db"
	svcErr "github.com/kindredapp/kindred/internal/errors"
	"github.com/kindredapp/kindred/internal/repository"
)

// matchReplyWindow is how long a fresh match stays open before the reply
// timer expires.
const matchReplyWindow = 24 * time.Hour

// EdgeKind selects which directed edge RecordLike writes.
type EdgeKind string

const (
	EdgeLike      EdgeKind = "like"
	EdgeSuperLike EdgeKind = "super_like"
)

// Annotation carries the optional payload of a like action: a comment on a
// profile field for regular likes, an intro message for super-likes.
type Annotation struct {
	Comment      string
	CommentField string
	Message      string
}

// Result is the outcome of a RecordLike call. Match is non-nil when the edge
// completed a mutual pair.
type Result struct {
	EdgeCreated bool
	Match       *db.Match
}

// Canned compliment bodies keyed by type.
var complimentTypes = map[string]string{
	"thoughtful": "Your profile really shows depth and thoughtfulness",
	"funny":      "Your sense of humor really stands out!",
	"charming":   "You have such a charming vibe",
	"confident":  "I love your confidence!",
}

// Service is the affinity ledger: it records like intents and promotes
// reciprocal pairs into matches.
type Service struct {
	appCtx         *app.AppContext
	likeRepo       *repository.LikeRepository
	matchRepo      *repository.MatchRepository
	userRepo       *repository.UserRepository
	complimentRepo *repository.ComplimentRepository

	now func() time.Time
}

// NewService creates the affinity service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:         appCtx,
		likeRepo:       repository.NewLikeRepository(appCtx.DB),
		matchRepo:      repository.NewMatchRepository(appCtx.DB),
		userRepo:       repository.NewUserRepository(appCtx.DB),
		complimentRepo: repository.NewComplimentRepository(appCtx.DB),
		now:            time.Now,
	}
}

// RecordLike records a directed edge from liker to likee and, when the likee
// has already liked back (either kind), promotes the pair into a match.
//
// Behavior:
//   - A duplicate edge for the ordered pair fails with ErrDuplicateEdge.
//   - Super-likes refill the 24h quota first if due, then spend one unit
//     atomically with the edge insert; exhausted quota fails with
//     ErrQuotaExhausted.
//   - The reciprocity check re-reads the datastore after the edge commit, and
//     match creation relies on the unique canonical-pair index, so two
//     opposite-direction calls racing each other still produce exactly one
//     match.
//   - The match initiator is the liker whose call completed the pair, which
//     is who the extend-timer permission belongs to.
func (s *Service) RecordLike(ctx context.Context, likerID, likeeID uint64, kind EdgeKind, ann Annotation) (*Result, error) {
	if likerID == 0 {
		return nil, svcErr.ErrUnauthenticated
	}
	if likerID == likeeID {
		return nil, svcErr.InvalidArgument("cannot like yourself")
	}

	exists, err := s.userRepo.Exists(ctx, likeeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, svcErr.NotFound("user does not exist")
	}

	now := s.now()

	switch kind {
	case EdgeLike:
		err = s.likeRepo.CreateLike(ctx, &db.Like{
			LikerID:      likerID,
			LikeeID:      likeeID,
			Comment:      ann.Comment,
			CommentField: ann.CommentField,
		})
	case EdgeSuperLike:
		// Refill before the availability check, at most once per window.
		if _, err = s.userRepo.ResetSuperLikesIfDue(ctx, likerID, now); err != nil {
			return nil, err
		}
		err = s.likeRepo.CreateSuperLike(ctx, &db.SuperLike{
			LikerID: likerID,
			LikeeID: likeeID,
			Message: ann.Message,
		})
	default:
		return nil, svcErr.InvalidArgument("unknown edge kind")
	}
	if err != nil {
		// Expected user-facing conditions, not errors.
		s.appCtx.Logger.Debug("edge rejected", "liker", likerID, "likee", likeeID, "kind", kind, "reason", err)
		return nil, err
	}

	// Best-effort cache bump for the likee's received-like count.
	key := s.appCtx.RedisCache.KeyForLikeCount(likeeID)
	_, _ = s.appCtx.RedisCache.Incr(ctx, key)
	_ = s.appCtx.RedisCache.Client.Expire(ctx, key, time.Hour).Err()

	mutual, err := s.likeRepo.HasReciprocalEdge(ctx, likerID, likeeID)
	if err != nil {
		s.appCtx.Logger.Error("reciprocity check failed", "err", err)
		return nil, err
	}

	result := &Result{EdgeCreated: true}
	if mutual {
		match, created, err := s.matchRepo.CreateOrGet(ctx, likerID, likeeID, likerID, now.Add(matchReplyWindow))
		if err != nil {
			s.appCtx.Logger.Error("match creation failed", "err", err)
			return nil, err
		}
		result.Match = match
		s.appCtx.Logger.Info("mutual like",
			"match_id", match.ID, "user_a", match.UserAID, "user_b", match.UserBID, "created", created)
	}

	return result, nil
}

// ListLikedYou returns users who liked the recipient, newest first, with an
// opaque cursor for the next page.
func (s *Service) ListLikedYou(ctx context.Context, likeeID uint64, token *string, limit int) ([]db.Like, *string, error) {
	if likeeID == 0 {
		return nil, nil, svcErr.ErrUnauthenticated
	}
	return s.likeRepo.GetLikers(ctx, likeeID, token, limit)
}

// ListNewLikedYou returns likers the recipient has not matched with yet.
func (s *Service) ListNewLikedYou(ctx context.Context, likeeID uint64, token *string, limit int) ([]db.Like, *string, error) {
	if likeeID == 0 {
		return nil, nil, svcErr.ErrUnauthenticated
	}
	return s.likeRepo.GetNewLikers(ctx, likeeID, token, limit)
}

// CountLikedYou returns how many users liked the recipient.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID).
//  2. On cache miss, falls back to the DB.
//  3. On DB fetch, updates Redis with a 1h TTL.
func (s *Service) CountLikedYou(ctx context.Context, likeeID uint64) (int64, error) {
	if likeeID == 0 {
		return 0, svcErr.ErrUnauthenticated
	}

	if cached, err := s.appCtx.RedisCache.GetLikeCount(ctx, likeeID); err == nil && cached > 0 {
		return cached, nil
	}

	count, err := s.likeRepo.CountLikers(ctx, likeeID)
	if err != nil {
		return 0, err
	}
	_ = s.appCtx.RedisCache.UpdateLikeCount(ctx, likeeID, count)
	return count, nil
}

// ListSuperLikesReceived returns the recipient's super-likes and marks the
// pending ones as notified.
func (s *Service) ListSuperLikesReceived(ctx context.Context, likeeID uint64) ([]db.SuperLike, error) {
	if likeeID == 0 {
		return nil, svcErr.ErrUnauthenticated
	}
	edges, err := s.likeRepo.ListSuperLikesReceived(ctx, likeeID)
	if err != nil {
		return nil, err
	}
	if err := s.likeRepo.MarkSuperLikesNotified(ctx, likeeID); err != nil {
		return nil, err
	}
	return edges, nil
}

// SendCompliment records a compliment from sender to receiver. A canned type
// supplies the body when no free-form message is given; at most one
// compliment per (sender, receiver) per UTC day.
func (s *Service) SendCompliment(ctx context.Context, senderID, receiverID uint64, kind, message string) (*db.Compliment, error) {
	if senderID == 0 {
		return nil, svcErr.ErrUnauthenticated
	}
	if senderID == receiverID {
		return nil, svcErr.InvalidArgument("cannot compliment yourself")
	}

	body := message
	if body == "" {
		canned, ok := complimentTypes[kind]
		if !ok {
			return nil, svcErr.InvalidArgument("invalid compliment type or message required")
		}
		body = canned
	}

	exists, err := s.userRepo.Exists(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, svcErr.NotFound("user does not exist")
	}

	compliment := &db.Compliment{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Day:        db.DayUTC(s.now()),
		Type:       kind,
		Message:    body,
	}
	if err := s.complimentRepo.Create(ctx, compliment); err != nil {
		if errors.Is(err, svcErr.ErrDuplicateEdge) {
			s.appCtx.Logger.Debug("compliment rejected", "sender", senderID, "receiver", receiverID)
		}
		return nil, err
	}
	return compliment, nil
}

// ListComplimentsReceived returns the caller's received compliments, newest
// first.
func (s *Service) ListComplimentsReceived(ctx context.Context, receiverID uint64) ([]db.Compliment, error) {
	if receiverID == 0 {
		return nil, svcErr.ErrUnauthenticated
	}
	return s.complimentRepo.ListReceived(ctx, receiverID)
}
