// Command main runs the database seeder.
package main

import (
	"context"
	"flag"
	"log"

	"network/internal/config"
	"network/internal/database"
	"network/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	plan := flag.String("plan", "", "YAML seed plan (flags below override its counts when set)")
	numUsers := flag.Int("users", 20, "Number of generated users")
	postsPerUser := flag.Int("posts", 5, "Posts per user")
	followsPerUser := flag.Int("follows", 4, "Follows per user")
	maxLikes := flag.Int("likes", 5, "Maximum likes per post")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randomSeed := flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	flag.Parse()

	_ = godotenv.Load()

	opts := seed.Options{
		Users:           *numUsers,
		PostsPerUser:    *postsPerUser,
		FollowsPerUser:  *followsPerUser,
		MaxLikesPerPost: *maxLikes,
		Clean:           *shouldClean,
		RandomSeed:      *randomSeed,
	}
	if *plan != "" {
		loaded, err := seed.LoadPlan(*plan)
		if err != nil {
			log.Fatalf("Failed to load seed plan: %v", err)
		}
		opts = mergeFlags(loaded, opts)
	}

	log.Printf("Target: %d accounts + %d generated users, %d posts each, clean=%v",
		len(opts.Accounts), opts.Users, opts.PostsPerUser, opts.Clean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	res, err := seed.NewSeeder(db, opts).Run(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Created %d users, %d follows, %d posts, %d likes", res.Users, res.Follows, res.Posts, res.Likes)
	log.Printf("All seeded users have the password: %s", passwordFor(opts))
}

// mergeFlags keeps the plan's values except for flags given on the command line.
func mergeFlags(plan, flags seed.Options) seed.Options {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "users":
			plan.Users = flags.Users
		case "posts":
			plan.PostsPerUser = flags.PostsPerUser
		case "follows":
			plan.FollowsPerUser = flags.FollowsPerUser
		case "likes":
			plan.MaxLikesPerPost = flags.MaxLikesPerPost
		case "clean":
			plan.Clean = flags.Clean
		case "seed":
			plan.RandomSeed = flags.RandomSeed
		}
	})
	return plan
}

func passwordFor(opts seed.Options) string {
	if opts.Password != "" {
		return opts.Password
	}
	return seed.DefaultPassword
}
