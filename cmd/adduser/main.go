package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/config"
	"github.com/frontandrew/patrol/internal/pkg/database"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/repository/postgres"
	"github.com/frontandrew/patrol/internal/usecase/user"
)

const minPasswordLength = 8

// Создание учетной записи (по умолчанию администратора) для первого входа.
// Пароль берется из PATROL_PASSWORD, чтобы не оставлять его в истории shell.
func main() {
	username := flag.String("username", "", "login name")
	fullName := flag.String("name", "", "full name")
	badge := flag.String("badge", "", "badge number")
	role := flag.String("role", string(domain.RoleAdmin), "admin or officer")
	flag.Parse()

	password := os.Getenv("PATROL_PASSWORD")
	if *username == "" || *fullName == "" || password == "" {
		fmt.Fprintln(os.Stderr, "usage: PATROL_PASSWORD=... adduser -username NAME -name \"Full Name\" [-role admin|officer] [-badge N]")
		os.Exit(2)
	}
	if len(password) < minPasswordLength {
		fmt.Fprintf(os.Stderr, "Password must be at least %d characters\n", minPasswordLength)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	if cfg.Database.ApplySchema {
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatal("Failed to apply database schema", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	userService := user.NewService(postgres.NewUserRepository(db), postgres.NewRefreshTokenRepository(db), log)

	created, err := userService.CreateUser(ctx, &user.CreateUserRequest{
		Username:    *username,
		Password:    password,
		FullName:    *fullName,
		BadgeNumber: *badge,
		Role:        domain.UserRole(*role),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			fmt.Fprintf(os.Stderr, "User %q already exists\n", *username)
			return
		}
		log.Error("Failed to create user", map[string]interface{}{
			"error": err.Error(),
		})
		database.Close(db)
		os.Exit(1)
	}

	fmt.Printf("Created %s %s (%s)\n", created.Role, created.Username, created.ID)
}
