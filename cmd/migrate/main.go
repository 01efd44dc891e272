package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"cms-backend/internal/config"
	"cms-backend/internal/domains/user/repository"
	"cms-backend/internal/infrastructure/database"
	"cms-backend/pkg/logger"
)

const (
	seedUsername = "author1"
	seedEmail    = "author@example.com"
	seedPassword = "password123"
)

// Applies the schema and seeds a development author account. Both steps
// are idempotent, so this can run on every deploy.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := database.NewPostgresDB(&cfg.Database)
	if err := db.Connect(ctx); err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	logger.Info("schema migrated", nil)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	users := repository.NewPostgresRepository(db.Pool)
	if err := users.EnsureSeedAuthor(ctx, seedUsername, seedEmail, string(hash)); err != nil {
		log.Fatalf("failed to seed author: %v", err)
	}
	logger.Info("seed author ensured", map[string]interface{}{
		"username": seedUsername,
		"email":    seedEmail,
	})
}
