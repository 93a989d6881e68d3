// Command create-admin seeds an administrator account for the content
// backend. Usage:
//
//	DATABASE_URL=... go run ./cmd/create-admin -email admin@example.org -name "Site Admin"
//
// The password is read from the ADMIN_PASSWORD environment variable.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"jumpstart-backend/models"
	"jumpstart-backend/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Println("no .env file found, using environment variables")
		}
	}

	email := flag.String("email", "", "admin email address (required)")
	name := flag.String("name", "", "admin display name")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD environment variable is required")
	}

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.AdminUser{
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		Name:         *name,
		PasswordHash: string(hash),
	}

	adminRepo := repository.NewAdminRepository(pool)
	if err := adminRepo.Create(context.Background(), admin); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Printf("Created admin user %s (%s)", admin.Email, admin.ID)
}
