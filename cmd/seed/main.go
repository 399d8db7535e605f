// Command main runs the database seeder for Mingle.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"mingle/internal/config"
	"mingle/internal/database"
	"mingle/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	shouldClean := flag.Bool("clean", false, "Delete existing data before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	maxAge := flag.Duration("max-age", 72*time.Hour, "How far back post creation times are spread")
	flag.Parse()

	log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	opts := seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
		Seed:        *randSeed,
		BcryptCost:  cfg.BcryptCost,
		MaxAge:      *maxAge,
	}
	stats, err := seed.NewSeeder(db, opts).Run(context.Background(), opts)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Created %d users, %d posts, %d likes, %d dislikes, %d comments",
		stats.Users, stats.Posts, stats.Likes, stats.Dislikes, stats.Comments)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
