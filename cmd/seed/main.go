package main

import (
	"log"

	"github.com/kindredapp/kindred/internal/config"
	"github.com/kindredapp/kindred/internal/db"
	"github.com/kindredapp/kindred/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	if err := db.SeedDemoData(database); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	// Bearer tokens for poking the API at the demo accounts.
	var users []db.User
	if err := database.Order("id ASC").Find(&users).Error; err != nil {
		log.Fatalf("failed to list seeded users: %v", err)
	}
	for _, u := range users {
		token, err := middleware.IssueToken(cfg.Auth.JWTSecret, u.ID)
		if err != nil {
			log.Fatalf("failed to issue token: %v", err)
		}
		log.Printf("%s (user %d): Bearer %s", u.Email, u.ID, token)
	}

	log.Println("Seeding completed.")
}
