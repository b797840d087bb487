// Command main runs the database seeder for ViewTube.
package main

import (
	"flag"
	"log"

	"viewtube/internal/config"
	"viewtube/internal/database"
	"viewtube/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numVideos := flag.Int("videos", 100, "Number of videos to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d videos, clean=%v\n", *numUsers, *numVideos, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumUsers:    *numUsers,
		NumVideos:   *numVideos,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The database is populated with test data.")
	log.Println("All seeded users have the password: password123")
}
