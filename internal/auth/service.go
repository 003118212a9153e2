package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"itam-backend/internal/apperr"
	"itam-backend/internal/models"

	"gorm.io/gorm"
)

const MinPasswordLength = 8

type Service struct {
	db     *gorm.DB
	tokens *TokenIssuer
}

func NewService(db *gorm.DB, tokens *TokenIssuer) *Service {
	return &Service{db: db, tokens: tokens}
}

type LoginResult struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	Role        models.UserRole `json:"role"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        *models.User    `json:"-"`
}

// Login checks the credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.New(apperr.InvalidInput, "username and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.New(apperr.Unauthorized, "incorrect email or password")
	case err != nil:
		return nil, apperr.Wrap(apperr.Internal, "load user", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, apperr.New(apperr.Unauthorized, "incorrect email or password")
	}
	if !user.IsActive {
		return nil, apperr.New(apperr.Forbidden, "inactive user")
	}

	token, exp, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "issue token", err)
	}
	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        user.Role,
		ExpiresAt:   exp,
		User:        &user,
	}, nil
}

// Resolve turns a bearer token into an active user.
func (s *Service) Resolve(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthorized, "could not validate credentials", err)
	}
	return s.UserByID(ctx, id)
}

// UserByID loads an active user. Missing or disabled accounts are Unauthorized,
// since the caller is holding a credential for someone who no longer exists.
func (s *Service) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.New(apperr.Unauthorized, "could not validate credentials")
	case err != nil:
		return nil, apperr.Wrap(apperr.Internal, "load user", err)
	}
	if !user.IsActive {
		return nil, apperr.New(apperr.Unauthorized, "inactive user")
	}
	return &user, nil
}

type ProfileInput struct {
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	user, err := s.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, apperr.New(apperr.InvalidInput, "full_name: must not be empty")
		}
		updates["full_name"] = name
	}
	if in.Password != nil && *in.Password != "" {
		if len(*in.Password) < MinPasswordLength {
			return nil, apperr.Newf(apperr.InvalidInput, "password: must be at least %d characters", MinPasswordLength)
		}
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "hash password", err)
		}
		updates["password_hash"] = hash
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "update profile", err)
	}
	return s.UserByID(ctx, userID)
}

// SetAvatar stores the public URL of an already uploaded avatar.
func (s *Service) SetAvatar(ctx context.Context, userID uint, url string) (*models.User, error) {
	user, err := s.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", url).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "update avatar", err)
	}
	user.Avatar = url
	return user, nil
}
