package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"pagesmith/internal/auth"
	"pagesmith/internal/config"
	"pagesmith/internal/domain"
	"pagesmith/internal/domain/models"
	"pagesmith/internal/domain/repositories"
	"pagesmith/internal/domain/services"
)

// authService implements the AuthService interface
type authService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenIssuer
	logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *auth.TokenIssuer,
	logger *slog.Logger,
) services.AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new account
func (s *authService) Register(ctx context.Context, req *services.RegisterRequest) (*models.User, error) {
	if err := s.validateCredentials(req.Email, req.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// The registration form reports a taken email as a plain
			// bad-request, not a conflict
			return nil, &domain.ValidationError{Message: "user already exists"}
		}
		return nil, err
	}

	s.logger.Info("user registered",
		"id", user.ID,
		"email", user.Email,
	)

	return user, nil
}

// Login verifies credentials and mints an access token
func (s *authService) Login(ctx context.Context, req *services.LoginRequest) (*services.LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Same message whether the email or the password is wrong
			return nil, &domain.UnauthorizedError{Message: "invalid mail or password"}
		}
		return nil, err
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, &domain.UnauthorizedError{Message: "invalid mail or password"}
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.logger.Info("user logged in", "id", user.ID)

	return &services.LoginResult{
		User:        user,
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// validateCredentials validates a registration payload
func (s *authService) validateCredentials(email, password string) error {
	return validation.Errors{
		"mail": validation.Validate(email,
			validation.Required,
			validation.By(validateEmail),
		),
		"password": validation.Validate(password,
			validation.Required,
			validation.Length(config.MinPasswordLength, 0),
		),
	}.Filter()
}

// validateEmail validates an email address
func validateEmail(value interface{}) error {
	email, ok := value.(string)
	if !ok {
		return fmt.Errorf("mail must be a string")
	}

	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return fmt.Errorf("mail must be a valid email address")
	}

	return nil
}
