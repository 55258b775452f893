package services

import (
	"context"

	"pagesmith/internal/domain/models"
)

// RegisterRequest carries the payload for account registration.
type RegisterRequest struct {
	Email    string `json:"mail"`
	Password string `json:"password"`
}

// LoginRequest carries the payload for login.
type LoginRequest struct {
	Email    string `json:"mail"`
	Password string `json:"password"`
}

// LoginResult bundles the authenticated user with a signed access token.
type LoginResult struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

// AuthService handles registration and login.
type AuthService interface {
	// Register creates a new account. Returns domain.ErrValidation for a bad
	// payload and domain.ErrConflict when the email is taken.
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)

	// Login verifies credentials and mints an access token. Returns
	// domain.ErrUnauthorized on any credential mismatch.
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
}
