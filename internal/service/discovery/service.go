package discovery

import (
	"context"
	"time"

	"github.com/kindredapp/kindred/internal/app"
	"github.com/kindredapp/kindred/internal/db"
	svcErr "github.com/kindredapp/kindred/internal/errors"
	"github.com/kindredapp/kindred/internal/repository"
)

const (
	feedPageSize  = 20
	boostDuration = 30 * time.Minute
)

// FeedProfile is the swipe-feed projection of a candidate.
type FeedProfile struct {
	UserID      uint64       `json:"userId"`
	DisplayName string       `json:"displayName"`
	Age         int          `json:"age"`
	Bio         string       `json:"bio"`
	Interests   []string     `json:"interests"`
	Photos      []string     `json:"photos"`
	LookingFor  string       `json:"lookingFor"`
	Drinking    string       `json:"drinking"`
	Smoking     string       `json:"smoking"`
	WantsKids   string       `json:"wantsKids"`
	IsVerified  bool         `json:"isVerified"`
	Prompts     []PromptView `json:"prompts"`
}

type PromptView struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Service serves the swipe feed and boost activation.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	likeRepo    *repository.LikeRepository
	userRepo    *repository.UserRepository
	boostRepo   *repository.BoostRepository

	now func() time.Time
}

// NewService creates the discovery service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		likeRepo:    repository.NewLikeRepository(appCtx.DB),
		userRepo:    repository.NewUserRepository(appCtx.DB),
		boostRepo:   repository.NewBoostRepository(appCtx.DB),
		now:         time.Now,
	}
}

// Feed returns candidate profiles for the viewer: inside the viewer's age
// window, excluding themself and anyone they already liked or blocked. The
// filter is one-directional; candidates' own preferences are not applied.
func (s *Service) Feed(ctx context.Context, userID uint64) ([]FeedProfile, error) {
	if userID == 0 {
		return nil, svcErr.ErrUnauthenticated
	}

	viewer, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	likedIDs, err := s.likeRepo.LikedUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	blockedIDs, err := s.profileRepo.BlockedUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	exclude := append([]uint64{userID}, likedIDs...)
	exclude = append(exclude, blockedIDs...)

	// Candidates aged [AgeMin, AgeMax] were born inside this window.
	now := s.now()
	maxBirthdate := now.AddDate(-viewer.AgeMin, 0, 0)
	minBirthdate := now.AddDate(-viewer.AgeMax-1, 0, 0)

	candidates, err := s.profileRepo.FeedCandidates(ctx, exclude, minBirthdate, maxBirthdate, feedPageSize)
	if err != nil {
		return nil, err
	}

	profiles := make([]FeedProfile, 0, len(candidates))
	for i := range candidates {
		p := &candidates[i]
		prompts := make([]PromptView, 0, len(p.Prompts))
		for _, prompt := range p.Prompts {
			prompts = append(prompts, PromptView{Question: prompt.Question, Answer: prompt.Answer})
		}
		profiles = append(profiles, FeedProfile{
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			Age:         p.AgeAt(now),
			Bio:         p.Bio,
			Interests:   p.Interests,
			Photos:      p.Photos,
			LookingFor:  p.LookingFor,
			Drinking:    p.Drinking,
			Smoking:     p.Smoking,
			WantsKids:   p.WantsKids,
			IsVerified:  p.IsVerified,
			Prompts:     prompts,
		})
	}
	return profiles, nil
}

// ActivateBoost starts a 30-minute boost for a premium user. One active boost
// at a time.
func (s *Service) ActivateBoost(ctx context.Context, userID uint64) (*db.Boost, error) {
	if userID == 0 {
		return nil, svcErr.ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsPremium {
		return nil, svcErr.Forbidden("boost requires premium")
	}

	now := s.now()
	if active, err := s.boostRepo.ActiveBoost(ctx, userID, now); err != nil {
		return nil, err
	} else if active != nil {
		return nil, svcErr.InvalidArgument("boost already active")
	}

	boost := &db.Boost{
		UserID:    userID,
		StartedAt: now,
		ExpiresAt: now.Add(boostDuration),
		IsActive:  true,
	}
	if err := s.boostRepo.Create(ctx, boost); err != nil {
		return nil, err
	}

	// Marker keyed to boost lifetime; feed ranking reads it cheaply.
	_ = s.appCtx.RedisCache.Set(ctx, s.appCtx.RedisCache.KeyForBoost(userID), boost.ID, boostDuration)

	return boost, nil
}

// BoostStatus reports the user's current boost and sweeps lapsed rows.
func (s *Service) BoostStatus(ctx context.Context, userID uint64) (*db.Boost, error) {
	if userID == 0 {
		return nil, svcErr.ErrUnauthenticated
	}

	now := s.now()
	active, err := s.boostRepo.ActiveBoost(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.boostRepo.DeactivateExpired(ctx, userID, now); err != nil {
		return nil, err
	}
	return active, nil
}
