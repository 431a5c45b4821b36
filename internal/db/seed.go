package db

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type demoProfile struct {
	email       string
	displayName string
	birthdate   time.Time
	bio         string
	interests   []string
	lookingFor  string
	drinking    string
	smoking     string
	wantsKids   string
	religion    string
	premium     bool
	prompts     []ProfilePrompt
}

// Demo fixture data. Lives here, outside the services, so empty-state demo
// content never leaks into business logic.
var demoProfiles = []demoProfile{
	{
		email: "sarah.chen@demo.com", displayName: "Sarah",
		birthdate: time.Date(1996, 6, 15, 0, 0, 0, 0, time.UTC),
		bio:       "Coffee enthusiast. Love hiking and photography.",
		interests: []string{"Photography", "Hiking", "Coffee", "Travel", "Yoga"},
		lookingFor: "relationship", drinking: "socially", smoking: "never", wantsKids: "maybe",
		prompts: []ProfilePrompt{
			{Question: "What's your ideal Sunday?", Answer: "Brunch with friends, then a long hike in nature"},
			{Question: "I geek out on...", Answer: "Film photography and vintage cameras"},
		},
	},
	{
		email: "emma.wilson@demo.com", displayName: "Emma",
		birthdate: time.Date(1998, 3, 22, 0, 0, 0, 0, time.UTC),
		bio:       "Artist. Dog mom to a golden retriever. Spontaneous adventures are my thing.",
		interests: []string{"Art", "Dogs", "Wine", "Music", "Cooking"},
		lookingFor: "relationship", drinking: "regularly", smoking: "never", wantsKids: "yes",
		premium: true,
		prompts: []ProfilePrompt{
			{Question: "Two truths and a lie", Answer: "I speak 3 languages, I've been to 30 countries, I can't swim"},
			{Question: "The way to win me over is...", Answer: "Cook me dinner and show me your vinyl collection"},
			{Question: "My simple pleasures", Answer: "Morning light in the studio"},
		},
	},
	{
		email: "maya.patel@demo.com", displayName: "Maya",
		birthdate: time.Date(1997, 9, 10, 0, 0, 0, 0, time.UTC),
		bio:       "Yoga instructor. Plant-based foodie. Let's talk about sustainable living.",
		interests: []string{"Yoga", "Vegan Cooking", "Sustainability", "Beach", "Meditation"},
		lookingFor: "friendship", drinking: "never", smoking: "never", wantsKids: "no",
	},
	{
		email: "alex.rivera@demo.com", displayName: "Alex",
		birthdate: time.Date(1995, 1, 8, 0, 0, 0, 0, time.UTC),
		bio:       "Software engineer by day, amateur chef by night.",
		interests: []string{"Cooking", "Tech", "Running", "Travel", "Coffee"},
		lookingFor: "relationship", drinking: "socially", smoking: "never", wantsKids: "maybe",
		prompts: []ProfilePrompt{
			{Question: "My most controversial opinion", Answer: "Pineapple belongs on pizza"},
		},
	},
	{
		email: "dan.kim@demo.com", displayName: "Dan",
		birthdate: time.Date(1993, 11, 2, 0, 0, 0, 0, time.UTC),
		bio:       "Marathon runner. Chai over coffee, always.",
		interests: []string{"Running", "Reading", "Food", "Music"},
		lookingFor: "casual", drinking: "socially", smoking: "socially", wantsKids: "no",
		premium: true,
	},
	{
		email: "priya.shah@demo.com", displayName: "Priya",
		birthdate: time.Date(1999, 4, 27, 0, 0, 0, 0, time.UTC),
		bio:       "Book hoarder and sunset chaser.",
		interests: []string{"Reading", "Photography", "Nature", "Travel"},
		lookingFor: "relationship", drinking: "never", smoking: "never", wantsKids: "yes", religion: "hindu",
		prompts: []ProfilePrompt{
			{Question: "The last book I loved", Answer: "Tomorrow, and Tomorrow, and Tomorrow"},
			{Question: "I'm looking for", Answer: "Someone to trade paperbacks with"},
			{Question: "Perfect first date", Answer: "A second-hand bookshop and good chai"},
		},
	},
}

// SeedDemoData resets the database and populates it with demo accounts,
// profiles, and a handful of edges so local clients have matches to look at.
func SeedDemoData(gdb *gorm.DB) error {
	tables := []string{
		"messages", "matches", "standouts", "compliments", "boosts", "blocks",
		"super_likes", "likes", "profile_prompts", "profiles", "users",
	}
	for _, table := range tables {
		if err := gdb.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	ids := make([]uint64, 0, len(demoProfiles))
	for _, dp := range demoProfiles {
		quota := 5
		if dp.premium {
			quota = 10
		}
		user := User{
			Email:             dp.email,
			PasswordHash:      string(hash),
			IsPremium:         dp.premium,
			SuperLikesLeft:    quota,
			SuperLikesResetAt: now,
			Active:            true,
			LastLoginAt:       now,
		}
		if err := gdb.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		profile := Profile{
			UserID:      user.ID,
			DisplayName: dp.displayName,
			Birthdate:   dp.birthdate,
			Bio:         dp.bio,
			Interests:   dp.interests,
			Photos:      []string{fmt.Sprintf("https://ui-avatars.com/api/?name=%s&size=400", dp.displayName)},
			LookingFor:  dp.lookingFor,
			Drinking:    dp.drinking,
			Smoking:     dp.smoking,
			WantsKids:   dp.wantsKids,
			Religion:    dp.religion,
			AgeMin:      21,
			AgeMax:      40,
			Prompts:     dp.prompts,
		}
		if err := gdb.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
		ids = append(ids, user.ID)
	}
	log.Printf("Seeded %d users with profiles.", len(ids))

	// A few edges: one completed match, a couple of one-way likes.
	edges := []Like{
		{LikerID: ids[0], LikeeID: ids[3]},
		{LikerID: ids[3], LikeeID: ids[0]},
		{LikerID: ids[1], LikeeID: ids[4]},
		{LikerID: ids[5], LikeeID: ids[3]},
	}
	if err := gdb.Create(&edges).Error; err != nil {
		return fmt.Errorf("failed to seed likes: %w", err)
	}

	a, b := CanonicalPair(ids[0], ids[3])
	expires := now.Add(24 * time.Hour)
	match := Match{UserAID: a, UserBID: b, InitiatorID: ids[3], ExpiresAt: &expires}
	if err := gdb.Create(&match).Error; err != nil {
		return fmt.Errorf("failed to seed match: %w", err)
	}

	log.Println("Seeded edges and one match.")
	return nil
}
