package match

import (
	"context"
	"time"

	"github.com/kindredapp/kindred/internal/app"
	"github.com/kindredapp/kindred/internal/db"
	svcErr "github.com/kindredapp/kindred/internal/errors"
	"github.com/kindredapp/kindred/internal/repository"
)

const (
	replyWindow     = 24 * time.Hour
	extendDuration  = 24 * time.Hour
	maxMessageBytes = 2000
)

// TimerView describes the state of a match's reply window for one party.
type TimerView struct {
	MatchID         uint64     `json:"matchId"`
	ExpiresAt       *time.Time `json:"expiresAt"`
	TimeRemainingMs int64      `json:"timeRemainingMs"`
	IsExpired       bool       `json:"isExpired"`
	InitiatorID     uint64     `json:"initiatorId"`
	HasFirstMessage bool       `json:"hasFirstMessage"`
	CanExtend       bool       `json:"canExtend"`
	IsUserInitiator bool       `json:"isUserInitiator"`
}

// MatchView is a match summary from one party's perspective.
type MatchView struct {
	ID          uint64       `json:"id"`
	OtherUserID uint64       `json:"otherUserId"`
	DisplayName string       `json:"displayName"`
	Bio         string       `json:"bio"`
	Age         int          `json:"age"`
	LastMessage *db.Message  `json:"lastMessage"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// DetailView is the full single-match projection for one party.
type DetailView struct {
	MatchView
	ExpiresAt       *time.Time `json:"expiresAt"`
	InitiatorID     uint64     `json:"initiatorId"`
	HasFirstMessage bool       `json:"hasFirstMessage"`
	IsUserInitiator bool       `json:"isUserInitiator"`
}

// Service exposes match listings, the reply-window timer, and messaging.
type Service struct {
	appCtx      *app.AppContext
	matchRepo   *repository.MatchRepository
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository

	now func() time.Time
}

// NewService creates the match service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		userRepo:    repository.NewUserRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		now:         time.Now,
	}
}

// List returns the user's matches with the other party's projection and the
// latest message.
func (s *Service) List(ctx context.Context, userID uint64) ([]MatchView, error) {
	if userID == 0 {
		return nil, svcErr.ErrUnauthenticated
	}

	matches, err := s.matchRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]MatchView, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		otherID, _ := m.OtherUserID(userID)

		profile, err := s.profileRepo.GetByUserID(ctx, otherID)
		if err != nil {
			// Matches with deleted profiles are skipped, not fatal.
			continue
		}
		last, err := s.matchRepo.LastMessage(ctx, m.ID)
		if err != nil {
			return nil, err
		}

		views = append(views, MatchView{
			ID:          m.ID,
			OtherUserID: otherID,
			DisplayName: profile.DisplayName,
			Bio:         profile.Bio,
			Age:         profile.AgeAt(now),
			LastMessage: last,
			CreatedAt:   m.CreatedAt,
		})
	}
	return views, nil
}

// Get returns one match with the other party's projection and timer fields.
func (s *Service) Get(ctx context.Context, matchID, userID uint64) (*DetailView, error) {
	m, err := s.getOwnedMatch(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}

	otherID, _ := m.OtherUserID(userID)
	profile, err := s.profileRepo.GetByUserID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	last, err := s.matchRepo.LastMessage(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	return &DetailView{
		MatchView: MatchView{
			ID:          m.ID,
			OtherUserID: otherID,
			DisplayName: profile.DisplayName,
			Bio:         profile.Bio,
			Age:         profile.AgeAt(s.now()),
			LastMessage: last,
			CreatedAt:   m.CreatedAt,
		},
		ExpiresAt:       m.ExpiresAt,
		InitiatorID:     m.InitiatorID,
		HasFirstMessage: m.HasFirstMessage,
		IsUserInitiator: m.InitiatorID == userID,
	}, nil
}

// getOwnedMatch loads the match and verifies the caller is a party to it.
// Outsiders get NotFound, not Forbidden, so match ids cannot be enumerated.
func (s *Service) getOwnedMatch(ctx context.Context, matchID, userID uint64) (*db.Match, error) {
	if userID == 0 {
		return nil, svcErr.ErrUnauthenticated
	}
	m, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.HasUser(userID) {
		return nil, svcErr.ErrNotFound
	}
	return m, nil
}

// Timer reports the reply-window state for the caller.
func (s *Service) Timer(ctx context.Context, matchID, userID uint64) (*TimerView, error) {
	m, err := s.getOwnedMatch(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	view := &TimerView{
		MatchID:         m.ID,
		ExpiresAt:       m.ExpiresAt,
		InitiatorID:     m.InitiatorID,
		HasFirstMessage: m.HasFirstMessage,
		IsUserInitiator: m.InitiatorID == userID,
	}
	if m.ExpiresAt != nil {
		if remaining := m.ExpiresAt.Sub(now); remaining > 0 {
			view.TimeRemainingMs = remaining.Milliseconds()
		} else {
			view.IsExpired = true
		}
	}
	view.CanExtend = view.IsUserInitiator && !m.HasFirstMessage && !view.IsExpired
	return view, nil
}

// Extend pushes the reply window out by 24h.
//
// Preconditions: caller is premium, is the match initiator, no first message
// has been sent, and the window has not already expired.
func (s *Service) Extend(ctx context.Context, matchID, userID uint64) (*db.Match, error) {
	m, err := s.getOwnedMatch(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsPremium {
		return nil, svcErr.Forbidden("extend requires premium")
	}
	if m.InitiatorID != userID {
		return nil, svcErr.Forbidden("only the match initiator can extend")
	}
	if m.HasFirstMessage {
		return nil, svcErr.InvalidArgument("match already has a first message")
	}

	now := s.now()
	if m.ExpiresAt != nil && m.ExpiresAt.Before(now) {
		return nil, svcErr.InvalidArgument("match has already expired")
	}

	base := now
	if m.ExpiresAt != nil {
		base = *m.ExpiresAt
	}
	newExpiry := base.Add(extendDuration)
	if err := s.matchRepo.SetExpiry(ctx, m.ID, newExpiry); err != nil {
		return nil, err
	}
	m.ExpiresAt = &newExpiry
	return m, nil
}

// Rematch reopens an expired match with a fresh 24h window and clears the
// first-message flag.
//
// Preconditions: caller is premium and a party; the window must have expired.
func (s *Service) Rematch(ctx context.Context, matchID, userID uint64) (*db.Match, error) {
	m, err := s.getOwnedMatch(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsPremium {
		return nil, svcErr.Forbidden("rematch requires premium")
	}

	now := s.now()
	if m.ExpiresAt == nil || !m.ExpiresAt.Before(now) {
		return nil, svcErr.InvalidArgument("match has not expired yet")
	}

	newExpiry := now.Add(replyWindow)
	if err := s.matchRepo.Rematch(ctx, m.ID, newExpiry); err != nil {
		return nil, err
	}
	m.ExpiresAt = &newExpiry
	m.HasFirstMessage = false
	return m, nil
}

// Messages returns the match's conversation in send order.
func (s *Service) Messages(ctx context.Context, matchID, userID uint64) ([]db.Message, error) {
	if _, err := s.getOwnedMatch(ctx, matchID, userID); err != nil {
		return nil, err
	}
	return s.matchRepo.ListMessages(ctx, matchID)
}

// SendMessage appends a message to the match, flipping the first-message flag
// when it is the conversation opener.
func (s *Service) SendMessage(ctx context.Context, matchID, userID uint64, body string) (*db.Message, error) {
	if body == "" {
		return nil, svcErr.InvalidArgument("message body is required")
	}
	if len(body) > maxMessageBytes {
		return nil, svcErr.InvalidArgument("message body too long")
	}

	if _, err := s.getOwnedMatch(ctx, matchID, userID); err != nil {
		return nil, err
	}

	msg := &db.Message{
		MatchID:  matchID,
		SenderID: userID,
		Body:     body,
	}
	if err := s.matchRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
