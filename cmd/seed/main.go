// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"tavern/internal/config"
	"tavern/internal/database"
	"tavern/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	numReplies := flag.Int("replies", 400, "Number of replies to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d posts, %d replies, clean=%v\n", *numUsers, *numPosts, *numReplies, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("❌ User seeding failed: %v", err)
	}
	log.Printf("✓ %d users created", len(users))

	posts, err := s.SeedPosts(users, *numPosts)
	if err != nil {
		log.Fatalf("❌ Post seeding failed: %v", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	votes, err := s.SeedVotes(users, posts)
	if err != nil {
		log.Fatalf("❌ Vote seeding failed: %v", err)
	}
	log.Printf("✓ %d votes recorded", votes)

	replies, err := s.SeedReplies(users, posts, *numReplies)
	if err != nil {
		log.Fatalf("❌ Reply seeding failed: %v", err)
	}
	log.Printf("✓ %d replies created", replies)

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
