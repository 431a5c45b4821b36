package db

import (
	"time"

	"gorm.io/datatypes"
)

// User table. Super-like quota lives here: SuperLikesLeft is decremented in
// the same transaction that records the edge, and SuperLikesResetAt guards
// the 24h tier refill.
type User struct {
	ID                uint64 `gorm:"primaryKey;autoIncrement"`
	Email             string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash      string `gorm:"size:255;not null"`
	IsPremium         bool   `gorm:"not null;default:false"`
	SuperLikesLeft    int    `gorm:"not null;default:5"`
	SuperLikesResetAt time.Time
	Active            bool `gorm:"default:true"`
	LastLoginAt       time.Time
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// Profile is the public-facing half of a user. Age is always derived from
// Birthdate, never stored.
type Profile struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	UserID      uint64 `gorm:"uniqueIndex;not null"`
	DisplayName string `gorm:"size:64;not null"`
	Birthdate   time.Time
	Bio         string                      `gorm:"size:1024"`
	Interests   datatypes.JSONSlice[string] `gorm:"type:json"`
	Photos      datatypes.JSONSlice[string] `gorm:"type:json"`
	Height      *int
	LookingFor  string `gorm:"size:32"`
	Drinking    string `gorm:"size:32"`
	Smoking     string `gorm:"size:32"`
	WantsKids   string `gorm:"size:32"`
	Religion    string `gorm:"size:32"`
	AgeMin      int    `gorm:"not null;default:18"`
	AgeMax      int    `gorm:"not null;default:99"`
	IsVerified  bool   `gorm:"not null;default:false"`
	Prompts     []ProfilePrompt
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// AgeAt derives the profile's age in whole years at the given instant.
func (p *Profile) AgeAt(now time.Time) int {
	age := now.Year() - p.Birthdate.Year()
	if now.Month() < p.Birthdate.Month() ||
		(now.Month() == p.Birthdate.Month() && now.Day() < p.Birthdate.Day()) {
		age--
	}
	return age
}

type ProfilePrompt struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	ProfileID uint64 `gorm:"index;not null"`
	Question  string `gorm:"size:255;not null"`
	Answer    string `gorm:"size:1024;not null"`
	Position  int    `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Like is a directed liker -> likee edge, optionally annotated with a comment
// on a specific profile field.
//
// Composite PK: (LikerID, LikeeID). A duplicate insert violates the PK, which
// surfaces as gorm.ErrDuplicatedKey and is reported to the caller as a
// distinguishable condition rather than an upsert.
//
// Index idx_likee_created(likee_id, created_at DESC, liker_id) serves the
// "who liked me" listings with cursor pagination.
type Like struct {
	LikerID      uint64    `gorm:"primaryKey"`
	LikeeID      uint64    `gorm:"primaryKey;index:idx_likee_created,priority:1"`
	Comment      string    `gorm:"size:512"`
	CommentField string    `gorm:"size:64"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_likee_created,priority:2,sort:desc"`
}

// SuperLike mirrors Like but is drawn from the rate-limited quota and may
// carry an intro message. Same ordered-pair uniqueness via composite PK.
type SuperLike struct {
	LikerID   uint64    `gorm:"primaryKey"`
	LikeeID   uint64    `gorm:"primaryKey;index:idx_super_likee_created,priority:1"`
	Message   string    `gorm:"size:512"`
	Notified  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_super_likee_created,priority:2,sort:desc"`
}

// Match is the undirected relation created when two users like each other.
// The pair is stored canonically (UserAID < UserBID) and the unique index on
// it is what makes concurrent opposite-direction likes yield exactly one row.
type Match struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	UserAID         uint64 `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	UserBID         uint64 `gorm:"not null;uniqueIndex:idx_match_pair,priority:2;index"`
	InitiatorID     uint64 `gorm:"not null"`
	ExpiresAt       *time.Time
	HasFirstMessage bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// HasUser reports whether userID is one of the two parties.
func (m *Match) HasUser(userID uint64) bool {
	return m.UserAID == userID || m.UserBID == userID
}

// OtherUserID returns the other party of the match.
func (m *Match) OtherUserID(userID uint64) (uint64, bool) {
	switch userID {
	case m.UserAID:
		return m.UserBID, true
	case m.UserBID:
		return m.UserAID, true
	}
	return 0, false
}

// CanonicalPair orders two user ids into the (UserAID, UserBID) form so the
// pair (a,b) and (b,a) always resolve to the same match row.
func CanonicalPair(a, b uint64) (uint64, uint64) {
	if a > b {
		return b, a
	}
	return a, b
}

type Message struct {
	ID       uint64    `gorm:"primaryKey;autoIncrement"`
	MatchID  uint64    `gorm:"index;not null"`
	SenderID uint64    `gorm:"not null"`
	Body     string    `gorm:"size:2048;not null"`
	SentAt   time.Time `gorm:"autoCreateTime"`
}

// Standout is one row of a user's daily standout selection. The unique index
// on (user_id, date, candidate_user_id) makes concurrent generation for the
// same day collide, so the loser reads back the winner's selection.
type Standout struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement"`
	UserID          uint64    `gorm:"not null;uniqueIndex:idx_standout_day,priority:1;index:idx_standout_user_date,priority:1"`
	CandidateUserID uint64    `gorm:"not null;uniqueIndex:idx_standout_day,priority:3"`
	Date            time.Time `gorm:"type:date;not null;uniqueIndex:idx_standout_day,priority:2;index:idx_standout_user_date,priority:2"`
	Reason          string    `gorm:"size:32;not null"`
	Score           int       `gorm:"not null"`
	IsViewed        bool      `gorm:"not null;default:false"`
	IsLiked         bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

// DayUTC truncates t to its UTC calendar day, the key for daily selections.
func DayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Compliment is a one-off nicety from sender to receiver. The unique index on
// (sender_id, receiver_id, day) enforces the one-per-day rule the same way
// the standout and match indexes enforce theirs.
type Compliment struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	SenderID   uint64    `gorm:"not null;uniqueIndex:idx_compliment_day,priority:1"`
	ReceiverID uint64    `gorm:"not null;uniqueIndex:idx_compliment_day,priority:2;index"`
	Day        time.Time `gorm:"type:date;not null;uniqueIndex:idx_compliment_day,priority:3"`
	Type       string    `gorm:"size:32"`
	Message    string    `gorm:"size:512;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

type Boost struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"index;not null"`
	StartedAt time.Time
	ExpiresAt time.Time
	IsActive  bool `gorm:"not null;default:true"`
}

// Block removes a user from the blocker's candidate pools.
type Block struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	BlockerID uint64    `gorm:"not null;uniqueIndex:idx_block_pair,priority:1"`
	BlockedID uint64    `gorm:"not null;uniqueIndex:idx_block_pair,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
