// Command main runs the database seeder for StudyDeck.
package main

import (
	"flag"
	"log"

	"studydeck/internal/config"
	"studydeck/internal/database"
	"studydeck/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 30, "Number of users to create")
	numThreads := flag.Int("threads", 100, "Number of threads to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d threads, clean=%v\n", *numUsers, *numThreads, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.SeedFixtures(); err != nil {
		log.Fatalf("Fixture seeding failed: %v", err)
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}

	if err := s.SeedThreads(users, *numThreads); err != nil {
		log.Fatalf("Thread seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
