// seed/main.go
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lexiquest-app/lexi_api/model"
	"github.com/lexiquest-app/lexi_api/seed/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, badges, terms, admin")
		dbPath   = flag.String("db", "", "SQLite database path (overrides DB_NAME env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	db, err := openDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Term{}, &model.Badge{}); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "badges":
		log.Println("Seeding badge catalog only...")
		if err := mainSeeder.SeedBadgesOnly(); err != nil {
			log.Fatalf("Failed to seed badges: %v", err)
		}
	case "terms":
		log.Println("Seeding starter terms only...")
		if err := mainSeeder.SeedTermsOnly(); err != nil {
			log.Fatalf("Failed to seed terms: %v", err)
		}
	case "admin":
		log.Println("Seeding admin user only...")
		if err := mainSeeder.SeedAdminOnly(); err != nil {
			log.Fatalf("Failed to seed admin: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'badges', 'terms', or 'admin'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func openDatabase(sqlitePath string) (*gorm.DB, error) {
	config := &gorm.Config{Logger: logger.Default.LogMode(logger.Info)}

	if os.Getenv("DB_DRIVER") == "postgres" && sqlitePath == "" {
		dsn := os.Getenv("DATABASE_URL")
		return gorm.Open(postgres.Open(dsn), config)
	}

	if sqlitePath == "" {
		sqlitePath = os.Getenv("DB_NAME")
		if sqlitePath == "" {
			sqlitePath = "app.db"
		}
	}
	return gorm.Open(sqlite.Open(sqlitePath), config)
}

func showHelp() {
	log.Println(`
Database Seeding Tool for LexiQuest

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, badges, terms, admin
  -db string
        SQLite database path (overrides DB_NAME environment variable)
  -help
        Show this help message

Examples:
  # Seed everything
  go run seed/main.go

  # Seed only the badge catalog
  go run seed/main.go -type=badges

  # Seed with custom database path
  go run seed/main.go -db=./custom.db

Environment Variables:
  DB_DRIVER    - "postgres" to seed Postgres via DATABASE_URL
  DATABASE_URL - Postgres DSN
  DB_NAME      - Default SQLite path (default: app.db)`)
}
