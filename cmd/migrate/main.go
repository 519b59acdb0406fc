// Command migrate creates or inspects the database schema.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"network/internal/config"
	"network/internal/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <auto|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	return execute(db, strings.ToLower(strings.TrimSpace(flag.Arg(0))))
}

func execute(db *gorm.DB, cmd string) error {
	switch cmd {
	case "auto":
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		log.Println("automigrations applied")
	case "status":
		pending, err := database.PendingTables(db)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("models=%d pending=%d", len(database.Models()), len(pending))
		for _, table := range pending {
			log.Printf("pending: %s", table)
		}
	default:
		return usage()
	}
	return nil
}
