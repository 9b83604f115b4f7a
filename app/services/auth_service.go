package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"gorm.io/gorm"
)

// AuthService issues JWTs for registered users.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a user with a bcrypt-hashed password and returns a token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Name: name, Email: email, Password: hash, Role: "user"}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, "", ErrEmailTaken
		}
		return models.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return models.User{}, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}

// Login verifies the password and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return models.User{}, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}
