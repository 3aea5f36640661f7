package main

import (
	"context"
	"flag"
	"log"

	"go-wholesale-inventory/internal/config"
	"go-wholesale-inventory/internal/repository"
	"go-wholesale-inventory/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	email := flag.String("email", cfg.Seed.AdminEmail, "account to reset")
	password := flag.String("password", cfg.Seed.AdminPassword, "new password")
	flag.Parse()

	// 2. Setup Database
	db, err := database.ConnectPostgres(cfg.Postgres, cfg.Logger.DBLevel)
	if err != nil {
		log.Fatalf("❌ Failed to connect: %v", err)
	}
	ctx := context.Background()
	users := repository.NewUserRepo(db)

	// 3. Find user
	user, err := users.FindByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("❌ User %s not found in database: %v", *email, err)
	}

	// 4. Hash new password
	if err := user.SetPassword(*password); err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	// 5. Update and drop the current session
	if err := users.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}
	if err := users.UpdateTokenVersion(ctx, user.ID, uuid.New().String()); err != nil {
		log.Fatalf("❌ Failed to rotate session: %v", err)
	}

	log.Printf("✅ Success! Password for %s has been reset", *email)
}
