package standouts

import (
	"time"

	"github.com/kindredapp/kindred/internal/db"
)

// Selection reasons, in precedence order.
const (
	ReasonHighlyCompatible = "highly_compatible"
	ReasonNewHere          = "new_here"
	ReasonRecentActivity   = "recent_activity"
	ReasonPopular          = "popular"
)

// Scoring weights. Components sum to at most 100; the final clamp is a safety
// net for future weight changes, not a normal-path event.
const (
	pointsPerSharedInterest = 8
	sharedInterestCap       = 40
	agePreferencePoints     = 20
	lookingForPoints        = 20
	lifestyleFieldPoints    = 5
	scoreCap                = 100

	newProfileWindow  = 7 * 24 * time.Hour
	recentPromptCount = 3
)

// compatibilityScore rates how well candidate fits user's stated preferences,
// in [0, 100]. Deterministic for fixed inputs.
func compatibilityScore(user, candidate *db.Profile, now time.Time) int {
	score := 0

	// Shared interests: 8 points each, capped at 40.
	userInterests := make(map[string]struct{}, len(user.Interests))
	for _, interest := range user.Interests {
		userInterests[interest] = struct{}{}
	}
	shared := 0
	for _, interest := range candidate.Interests {
		if _, ok := userInterests[interest]; ok {
			shared++
		}
	}
	if pts := shared * pointsPerSharedInterest; pts > sharedInterestCap {
		score += sharedInterestCap
	} else {
		score += pts
	}

	// Candidate's derived age inside the user's preference range.
	if age := candidate.AgeAt(now); age >= user.AgeMin && age <= user.AgeMax {
		score += agePreferencePoints
	}

	// Relationship-goal alignment.
	if user.LookingFor != "" && user.LookingFor == candidate.LookingFor {
		score += lookingForPoints
	}

	// Lifestyle: 5 points per field set on both sides and equal.
	lifestyle := [][2]string{
		{user.Drinking, candidate.Drinking},
		{user.Smoking, candidate.Smoking},
		{user.WantsKids, candidate.WantsKids},
		{user.Religion, candidate.Religion},
	}
	for _, pair := range lifestyle {
		if pair[0] != "" && pair[0] == pair[1] {
			score += lifestyleFieldPoints
		}
	}

	if score > scoreCap {
		score = scoreCap
	}
	return score
}

// standoutReason tags a scored candidate. First matching rule wins.
func standoutReason(score int, candidate *db.Profile, now time.Time) string {
	switch {
	case score > 80:
		return ReasonHighlyCompatible
	case now.Sub(candidate.CreatedAt) < newProfileWindow:
		return ReasonNewHere
	case len(candidate.Prompts) >= recentPromptCount:
		return ReasonRecentActivity
	default:
		return ReasonPopular
	}
}
