package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mindforge/forge_api/seed/seeders"
	"github.com/mindforge/forge_api/services"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, profiles, token")
		dbPath   = flag.String("db", "", "SQLite database path (overrides DB_DATABASE)")
		userID   = flag.String("user", "dev-user", "User id for the dev token")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	switch *seedType {
	case "all", "profiles":
		db := openDatabase(*dbPath)
		ds, err := services.NewPostgresServiceFromDB(db)
		if err != nil {
			log.WithError(err).Fatal("Failed to migrate database")
		}
		if err := seeders.NewMainSeeder(ds).SeedAll(); err != nil {
			log.WithError(err).Fatal("Failed to seed database")
		}
		if *seedType == "all" {
			printToken(*userID)
		}
	case "token":
		printToken(*userID)
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'profiles' or 'token'", *seedType)
	}

	log.Info("Seeding operation completed successfully")
}

func openDatabase(path string) *gorm.DB {
	if path == "" {
		path = os.Getenv("DB_DATABASE")
	}
	if path == "" {
		path = "mindforge.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	log.WithField("path", path).Info("Connected to database")
	return db
}

// printToken mints a bearer token with the server's JWT settings.
func printToken(userID string) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required to mint a dev token")
	}
	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "mindforge"
	}

	token, err := services.NewJWTService(secret, issuer, 7*24*time.Hour).ToJWT(userID, userID+"@mindforge.dev", "Dev User")
	if err != nil {
		log.WithError(err).Fatal("Failed to mint dev token")
	}
	fmt.Println(token)
}

func showHelp() {
	fmt.Println(`
Database seeding tool for MindForge

Usage: go run ./seed [flags]

Flags:
  -type string
        all (profiles + token), profiles, token (default "all")
  -db string
        SQLite database path (overrides DB_DATABASE)
  -user string
        User id for the dev token (default "dev-user")
  -help
        Show this help message

Environment Variables:
  DB_DATABASE - Default database path (default: mindforge.db)
  JWT_SECRET  - Secret used to sign the dev token
  JWT_ISSUER  - Token issuer (default: mindforge)`)
}
