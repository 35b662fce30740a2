package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitvest/splitvest/internal/auth"
	"github.com/splitvest/splitvest/internal/models"
	"github.com/splitvest/splitvest/internal/storage"
)

// AuthService handles registration, login and profile management.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
	}
}

// Register creates a new user account and returns the user with a session
// token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	if name == "" || email == "" {
		return nil, "", fmt.Errorf("%w: name and email are required", auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Register(ctx, name, email, password)
	if err != nil {
		slog.Warn("Registration failed", "email", email, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates a user and returns the user with a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login failed", "email", email, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	slog.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}

// GetUser retrieves a user's profile.
func (s *AuthService) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// UpdateProfile updates a user's name and email.
func (s *AuthService) UpdateProfile(ctx context.Context, id models.UserID, name, email string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" && email != user.Email {
		existing, err := s.store.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, auth.ErrEmailExists
		}
		user.Email = email
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("Profile updated", "user_id", id)
	return user, nil
}
