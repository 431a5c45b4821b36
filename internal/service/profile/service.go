package profile

import (
	"context"
	"time"

	"github.com/kindredapp/kindred/internal/app"
	"github.com/kindredapp/kindred/internal/db"
	svcErr "github.com/kindredapp/kindred/internal/errors"
	"github.com/kindredapp/kindred/internal/repository"
)

const (
	minAgePreference = 18
	maxAgePreference = 99
)

// View is the caller's own profile, preferences included.
type View struct {
	UserID      uint64       `json:"userId"`
	DisplayName string       `json:"displayName"`
	Birthdate   time.Time    `json:"birthdate"`
	Age         int          `json:"age"`
	Bio         string       `json:"bio"`
	Interests   []string     `json:"interests"`
	Photos      []string     `json:"photos"`
	Height      *int         `json:"height,omitempty"`
	LookingFor  string       `json:"lookingFor"`
	Drinking    string       `json:"drinking"`
	Smoking     string       `json:"smoking"`
	WantsKids   string       `json:"wantsKids"`
	Religion    string       `json:"religion"`
	AgeMin      int          `json:"ageMin"`
	AgeMax      int          `json:"ageMax"`
	IsVerified  bool         `json:"isVerified"`
	Prompts     []PromptView `json:"prompts"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// PublicView is the projection other users see. No preference fields.
type PublicView struct {
	UserID      uint64       `json:"userId"`
	DisplayName string       `json:"displayName"`
	Age         int          `json:"age"`
	Bio         string       `json:"bio"`
	Interests   []string     `json:"interests"`
	Photos      []string     `json:"photos"`
	LookingFor  string       `json:"lookingFor"`
	IsVerified  bool         `json:"isVerified"`
	Prompts     []PromptView `json:"prompts"`
}

type PromptView struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// UpdateInput carries the editable profile fields. Nil pointers leave the
// stored value untouched.
type UpdateInput struct {
	DisplayName *string
	Bio         *string
	Interests   *[]string
	Photos      *[]string
	Height      *int
	LookingFor  *string
	Drinking    *string
	Smoking     *string
	WantsKids   *string
	Religion    *string
	AgeMin      *int
	AgeMax      *int
	Prompts     *[]PromptView
}

// Service manages profile reads, edits and blocks.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	userRepo    *repository.UserRepository

	now func() time.Time
}

// NewService creates the profile service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		userRepo:    repository.NewUserRepository(appCtx.DB),
		now:         time.Now,
	}
}

// Get returns the caller's own profile.
func (s *Service) Get(ctx context.Context, userID uint64) (*View, error) {
	if userID == 0 {
		return nil, svcErr.ErrUnauthenticated
	}
	p, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toView(p), nil
}

// GetPublic returns another user's profile projection.
func (s *Service) GetPublic(ctx context.Context, viewerID, targetID uint64) (*PublicView, error) {
	if viewerID == 0 {
		return nil, svcErr.ErrUnauthenticated
	}

	// Blocks hide both directions of the pair.
	blocked, err := s.profileRepo.BlockedUserIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	for _, id := range blocked {
		if id == targetID {
			return nil, svcErr.ErrNotFound
		}
	}
	reverse, err := s.profileRepo.BlockedUserIDs(ctx, targetID)
	if err != nil {
		return nil, err
	}
	for _, id := range reverse {
		if id == viewerID {
			return nil, svcErr.ErrNotFound
		}
	}

	p, err := s.profileRepo.GetByUserID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return s.toPublicView(p), nil
}

// Update applies a partial edit to the caller's profile.
//
// The age preference range must satisfy 18 <= ageMin <= ageMax <= 99 after
// the edit; a violating update is rejected whole.
func (s *Service) Update(ctx context.Context, userID uint64, in UpdateInput) (*View, error) {
	if userID == 0 {
		return nil, svcErr.ErrUnauthenticated
	}

	p, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		if *in.DisplayName == "" {
			return nil, svcErr.InvalidArgument("displayName cannot be empty")
		}
		p.DisplayName = *in.DisplayName
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.Interests != nil {
		p.Interests = *in.Interests
	}
	if in.Photos != nil {
		p.Photos = *in.Photos
	}
	if in.Height != nil {
		p.Height = in.Height
	}
	if in.LookingFor != nil {
		p.LookingFor = *in.LookingFor
	}
	if in.Drinking != nil {
		p.Drinking = *in.Drinking
	}
	if in.Smoking != nil {
		p.Smoking = *in.Smoking
	}
	if in.WantsKids != nil {
		p.WantsKids = *in.WantsKids
	}
	if in.Religion != nil {
		p.Religion = *in.Religion
	}
	if in.AgeMin != nil {
		p.AgeMin = *in.AgeMin
	}
	if in.AgeMax != nil {
		p.AgeMax = *in.AgeMax
	}
	if p.AgeMin < minAgePreference || p.AgeMax > maxAgePreference || p.AgeMin > p.AgeMax {
		return nil, svcErr.InvalidArgument("age range must satisfy 18 <= ageMin <= ageMax <= 99")
	}

	var prompts []db.ProfilePrompt
	if in.Prompts != nil {
		prompts = make([]db.ProfilePrompt, 0, len(*in.Prompts))
		for _, pv := range *in.Prompts {
			if pv.Question == "" || pv.Answer == "" {
				return nil, svcErr.InvalidArgument("prompts need both question and answer")
			}
			prompts = append(prompts, db.ProfilePrompt{Question: pv.Question, Answer: pv.Answer})
		}
	}

	if err := s.profileRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	if in.Prompts != nil {
		if err := s.profileRepo.ReplacePrompts(ctx, p.ID, prompts); err != nil {
			return nil, err
		}
	}

	updated, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.appCtx.Logger.Info("profile updated", "user", userID)
	return s.toView(updated), nil
}

// Block hides target from all of the caller's candidate pools and listings.
// Blocking twice is reported as a duplicate.
func (s *Service) Block(ctx context.Context, userID, targetID uint64) error {
	if userID == 0 {
		return svcErr.ErrUnauthenticated
	}
	if userID == targetID {
		return svcErr.InvalidArgument("cannot block yourself")
	}

	exists, err := s.userRepo.Exists(ctx, targetID)
	if err != nil {
		return err
	}
	if !exists {
		return svcErr.NotFound("user does not exist")
	}

	return s.profileRepo.CreateBlock(ctx, userID, targetID)
}

// Unblock lifts a block. Unblocking someone never blocked is a no-op.
func (s *Service) Unblock(ctx context.Context, userID, targetID uint64) error {
	if userID == 0 {
		return svcErr.ErrUnauthenticated
	}
	return s.profileRepo.DeleteBlock(ctx, userID, targetID)
}

func (s *Service) toView(p *db.Profile) *View {
	return &View{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Birthdate:   p.Birthdate,
		Age:         p.AgeAt(s.now()),
		Bio:         p.Bio,
		Interests:   p.Interests,
		Photos:      p.Photos,
		Height:      p.Height,
		LookingFor:  p.LookingFor,
		Drinking:    p.Drinking,
		Smoking:     p.Smoking,
		WantsKids:   p.WantsKids,
		Religion:    p.Religion,
		AgeMin:      p.AgeMin,
		AgeMax:      p.AgeMax,
		IsVerified:  p.IsVerified,
		Prompts:     toPromptViews(p.Prompts),
		CreatedAt:   p.CreatedAt,
	}
}

func (s *Service) toPublicView(p *db.Profile) *PublicView {
	return &PublicView{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Age:         p.AgeAt(s.now()),
		Bio:         p.Bio,
		Interests:   p.Interests,
		Photos:      p.Photos,
		LookingFor:  p.LookingFor,
		IsVerified:  p.IsVerified,
		Prompts:     toPromptViews(p.Prompts),
	}
}

func toPromptViews(prompts []db.ProfilePrompt) []PromptView {
	views := make([]PromptView, 0, len(prompts))
	for _, p := range prompts {
		views = append(views, PromptView{Question: p.Question, Answer: p.Answer})
	}
	return views
}
