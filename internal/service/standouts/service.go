package standouts

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/kindredapp/kindred/internal/app"
	"github.com/kindredapp/kindred/internal/db"
	svcErr "github.com/kindredapp/kindred/internal/errors"
	"github.com/kindredapp/kindred/internal/repository"
	"github.com/kindredapp/kindred/internal/service/affinity"
)

const (
	selectionSize    = 10
	candidateScanCap = 50
)

// Liker is the slice of the affinity service the ranker needs: liking a
// standout routes through the same ledger as any other like.
type Liker interface {
	RecordLike(ctx context.Context, likerID, likeeID uint64, kind affinity.EdgeKind, ann affinity.Annotation) (*affinity.Result, error)
}

// StandoutView is one ranked selection item with its candidate projection.
type StandoutView struct {
	ID                 uint64      `json:"id"`
	Reason             string      `json:"reason"`
	CompatibilityScore int         `json:"compatibilityScore"`
	IsViewed           bool        `json:"isViewed"`
	IsLiked            bool        `json:"isLiked"`
	Profile            ProfileView `json:"profile"`
}

type ProfileView struct {
	UserID      uint64       `json:"userId"`
	DisplayName string       `json:"displayName"`
	Birthdate   time.Time    `json:"birthdate"`
	Bio         string       `json:"bio"`
	Interests   []string     `json:"interests"`
	Photos      []string     `json:"photos"`
	Prompts     []PromptView `json:"prompts"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type PromptView struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Service is the standout ranker: once per user per UTC day it scores a
// bounded candidate pool and persists the top selection.
type Service struct {
	appCtx       *app.AppContext
	standoutRepo *repository.StandoutRepository
	profileRepo  *repository.ProfileRepository
	likeRepo     *repository.LikeRepository
	liker        Liker

	now func() time.Time
}

// NewService creates the standout service with dependencies from AppContext.
func NewService(appCtx *app.AppContext, liker Liker) *Service {
	return &Service{
		appCtx:       appCtx,
		standoutRepo: repository.NewStandoutRepository(appCtx.DB),
		profileRepo:  repository.NewProfileRepository(appCtx.DB),
		likeRepo:     repository.NewLikeRepository(appCtx.DB),
		liker:        liker,
		now:          time.Now,
	}
}

// GetOrGenerate returns the user's standouts for the given day, generating
// and persisting them on first request.
//
// Behavior:
//   - An existing selection for (user, day) is returned verbatim, never
//     recomputed.
//   - Generation scores at most candidateScanCap profiles, excluding the
//     user and everyone they already liked, and keeps the top selectionSize
//     ordered by score descending with candidate id ascending as tie-break.
//   - Two concurrent first requests collide on the (user, day) unique index;
//     the loser reads back the winner's rows.
func (s *Service) GetOrGenerate(ctx context.Context, userID uint64, day time.Time) ([]StandoutView, error) {
	if userID == 0 {
		return nil, svcErr.ErrUnauthenticated
	}

	existing, err := s.standoutRepo.GetForDate(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return s.buildViews(ctx, existing)
	}

	userProfile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	likedIDs, err := s.likeRepo.LikedUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	exclude := append([]uint64{userID}, likedIDs...)

	candidates, err := s.profileRepo.StandoutCandidates(ctx, exclude, candidateScanCap)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rows := make([]db.Standout, 0, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]
		score := compatibilityScore(userProfile, candidate, now)
		rows = append(rows, db.Standout{
			UserID:          userID,
			CandidateUserID: candidate.UserID,
			Date:            db.DayUTC(day),
			Reason:          standoutReason(score, candidate, now),
			Score:           score,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].CandidateUserID < rows[j].CandidateUserID
	})
	if len(rows) > selectionSize {
		rows = rows[:selectionSize]
	}

	if err := s.standoutRepo.CreateBatch(ctx, rows); err != nil {
		if errors.Is(err, svcErr.ErrDuplicateEdge) {
			// Lost the generation race; the winner's selection is canonical.
			s.appCtx.Logger.Debug("standout generation raced", "user", userID)
			winner, err := s.standoutRepo.GetForDate(ctx, userID, day)
			if err != nil {
				return nil, err
			}
			return s.buildViews(ctx, winner)
		}
		return nil, err
	}

	s.appCtx.Logger.Info("standouts generated", "user", userID, "count", len(rows))
	return s.buildViews(ctx, rows)
}

// Mark updates the viewed/liked flags on a selection item. Liking routes the
// like through the affinity ledger; an already-recorded edge keeps the mark
// idempotent.
func (s *Service) Mark(ctx context.Context, userID, standoutID uint64, viewed, liked *bool) (*db.Standout, error) {
	if userID == 0 {
		return nil, svcErr.ErrUnauthenticated
	}

	row, err := s.standoutRepo.UpdateFlags(ctx, standoutID, userID, viewed, liked)
	if err != nil {
		return nil, err
	}

	if liked != nil && *liked {
		_, err := s.liker.RecordLike(ctx, userID, row.CandidateUserID, affinity.EdgeLike, affinity.Annotation{})
		if err != nil && !errors.Is(err, svcErr.ErrDuplicateEdge) {
			return nil, err
		}
	}

	return row, nil
}

// buildViews resolves candidate projections for selection rows, preserving
// the rows' ranked order.
func (s *Service) buildViews(ctx context.Context, rows []db.Standout) ([]StandoutView, error) {
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.CandidateUserID)
	}

	profiles, err := s.profileRepo.GetManyByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uint64]*db.Profile, len(profiles))
	for i := range profiles {
		byUser[profiles[i].UserID] = &profiles[i]
	}

	views := make([]StandoutView, 0, len(rows))
	for _, row := range rows {
		profile, ok := byUser[row.CandidateUserID]
		if !ok {
			// Candidate profile vanished since selection; skip the row.
			continue
		}
		views = append(views, StandoutView{
			ID:                 row.ID,
			Reason:             row.Reason,
			CompatibilityScore: row.Score,
			IsViewed:           row.IsViewed,
			IsLiked:            row.IsLiked,
			Profile:            toProfileView(profile),
		})
	}
	return views, nil
}

func toProfileView(p *db.Profile) ProfileView {
	prompts := make([]PromptView, 0, len(p.Prompts))
	for _, prompt := range p.Prompts {
		prompts = append(prompts, PromptView{Question: prompt.Question, Answer: prompt.Answer})
	}
	return ProfileView{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Birthdate:   p.Birthdate,
		Bio:         p.Bio,
		Interests:   p.Interests,
		Photos:      p.Photos,
		Prompts:     prompts,
		CreatedAt:   p.CreatedAt,
	}
}
