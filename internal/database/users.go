package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"itam-backend/internal/auth"
	"itam-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrUserExists = errors.New("user already exists")

// CreateUser hashes the password and inserts a new account.
func CreateUser(ctx context.Context, db *gorm.DB, email, password, fullName string, role models.UserRole) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check user %s: %w", email, err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", email, err)
	}
	return &user, nil
}

// EnsureAdmin creates the bootstrap admin when no admin exists yet.
func EnsureAdmin(ctx context.Context, db *gorm.DB, email, password, fullName string) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}
	if password == "" {
		log.Warn().Msg("no admin account and ADMIN_PASSWORD is empty, skipping bootstrap")
		return nil
	}

	if _, err := CreateUser(ctx, db, email, password, fullName, models.RoleAdmin); err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("created bootstrap admin")
	return nil
}

// SeedDemoUsers adds an operator and a plain user for local setups.
func SeedDemoUsers(ctx context.Context, db *gorm.DB) {
	type seedUser struct {
		Email    string
		Password string
		FullName string
		Role     models.UserRole
	}

	users := []seedUser{
		{Email: "operator@bpkpenabur.id", Password: "Operator123!", FullName: "Operator IT", Role: models.RoleOperator},
		{Email: "user@bpkpenabur.id", Password: "User123!", FullName: "Staf Sekolah", Role: models.RoleUser},
	}

	for _, u := range users {
		_, err := CreateUser(ctx, db, u.Email, u.Password, u.FullName, u.Role)
		switch {
		case errors.Is(err, ErrUserExists):
			continue
		case err != nil:
			log.Error().Err(err).Str("email", u.Email).Msg("seed demo user")
			continue
		}
		log.Info().Str("email", u.Email).Str("role", string(u.Role)).Msg("created demo user")
	}
}
