package standouts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kindredapp/kindred/internal/db"
)

func profileAged(age int, now time.Time) *db.Profile {
	return &db.Profile{Birthdate: now.AddDate(-age, 0, -1)}
}

func TestCompatibilityScore(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	user := &db.Profile{
		Interests:  []string{"Travel", "Music", "Art"},
		AgeMin:     25,
		AgeMax:     35,
		LookingFor: "long_term",
		Drinking:   "socially",
	}

	candidate := profileAged(30, now)
	candidate.Interests = []string{"Travel", "Music"}
	candidate.LookingFor = "long_term"
	candidate.Drinking = "socially"

	// 2 shared interests (16) + age in range (20) + goal (20) + drinking (5)
	assert.Equal(t, 61, compatibilityScore(user, candidate, now))
}

func TestCompatibilityScoreSharedInterestCap(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	interests := []string{"a", "b", "c", "d", "e", "f", "g"}

	user := &db.Profile{Interests: interests, AgeMin: 18, AgeMax: 99}
	candidate := profileAged(200, now) // out of range
	candidate.Interests = interests

	// 7 shared interests would be 56; capped at 40
	assert.Equal(t, 40, compatibilityScore(user, candidate, now))
}

func TestCompatibilityScoreAgeBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	user := &db.Profile{AgeMin: 25, AgeMax: 35}

	assert.Equal(t, 20, compatibilityScore(user, profileAged(25, now), now))
	assert.Equal(t, 20, compatibilityScore(user, profileAged(35, now), now))
	assert.Equal(t, 0, compatibilityScore(user, profileAged(24, now), now))
	assert.Equal(t, 0, compatibilityScore(user, profileAged(36, now), now))
}

func TestCompatibilityScoreEmptyFieldsDontMatch(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// both sides empty: no goal or lifestyle points
	user := &db.Profile{AgeMin: 18, AgeMax: 99}
	candidate := profileAged(200, now)
	assert.Equal(t, 0, compatibilityScore(user, candidate, now))
}

func TestStandoutReasonPrecedence(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	fresh := &db.Profile{CreatedAt: now.Add(-3 * 24 * time.Hour)}
	old := &db.Profile{CreatedAt: now.Add(-30 * 24 * time.Hour)}
	chatty := &db.Profile{
		CreatedAt: now.Add(-30 * 24 * time.Hour),
		Prompts:   make([]db.ProfilePrompt, 3),
	}

	// high score wins even for a brand-new profile
	assert.Equal(t, ReasonHighlyCompatible, standoutReason(85, fresh, now))
	assert.Equal(t, ReasonNewHere, standoutReason(50, fresh, now))
	assert.Equal(t, ReasonRecentActivity, standoutReason(50, chatty, now))
	assert.Equal(t, ReasonPopular, standoutReason(50, old, now))

	// 80 is not "highly compatible"; the threshold is strict
	assert.Equal(t, ReasonPopular, standoutReason(80, old, now))
}
