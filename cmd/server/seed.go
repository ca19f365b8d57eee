package main

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/alextreichler/foodorder/internal/config"
	"github.com/alextreichler/foodorder/internal/models"
	"github.com/alextreichler/foodorder/internal/store"
)

const adminUsername = "admin"

// seedAdmin creates the admin account on first run. Without ADMIN_PASSWORD a
// random password is generated and logged once.
func seedAdmin(ctx context.Context, db *store.Store, cfg *config.Config) error {
	exists, err := db.UsernameExists(ctx, adminUsername)
	if err != nil {
		return err
	}
	if exists {
		slog.Debug("Admin account already exists", "username", adminUsername)
		return nil
	}

	password := cfg.AdminPassword
	generated := password == ""
	if generated {
		password = config.RandomPassword()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: adminUsername,
		Email:    cfg.AdminEmail,
		Password: string(hash),
		IsAdmin:  true,
	}
	if err := db.CreateUser(ctx, admin); err != nil {
		// Another process seeded it first.
		if errors.Is(err, store.ErrUsernameTaken) {
			return nil
		}
		return err
	}

	if generated {
		slog.Warn("Created admin account with a generated password. Set ADMIN_PASSWORD to choose one.",
			"username", adminUsername, "password", password)
	} else {
		slog.Info("Created admin account", "username", adminUsername)
	}
	return nil
}
