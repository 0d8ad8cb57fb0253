package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/taskera/backend/internal/config"
	"github.com/taskera/backend/internal/core/ports"
	"github.com/taskera/backend/internal/core/services"
	"github.com/taskera/backend/internal/infrastructure/db"
	"github.com/taskera/backend/internal/infrastructure/logger"
)

// adminctl seeds an administrator account directly against the database,
// for deployments where the open bootstrap sign-up is not reachable.
func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "path to config file")
		name       = flag.String("name", "", "display name for the admin")
		email      = flag.String("email", "", "admin email (required)")
		password   = flag.String("password", "", "admin password (required)")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.NewPostgresConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close(database)

	if err := db.RunMigrations(database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	nop := logger.NewNop()
	auth := services.NewAuthService(services.AuthServiceConfig{
		UserRepo:    db.NewUserRepository(database, nop),
		SessionRepo: db.NewSessionRepository(database, nop),
		Logger:      nop,
		BcryptCost:  cfg.Auth.BcryptCost,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := auth.SignUp(ctx, ports.SignUpInput{
		Name:     *name,
		Email:    *email,
		Password: *password,
		IsAdmin:  true,
	})
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("✓ Admin created: %s (%s)\n", user.Name, user.ID)
}
