package service

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"

	"medmarket/internal/auth"
	"medmarket/internal/entity"
	"medmarket/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// AuthService handles signup, login and the current-user lookup.
type AuthService struct {
	users repository.UserRepository
	codec *auth.TokenCodec
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(users repository.UserRepository, codec *auth.TokenCodec) *AuthService {
	return &AuthService{users: users, codec: codec}
}

// Signup registers a user and returns a fresh session token. An empty
// role defaults to buyer; anything outside the closed set is rejected
// before the store is touched.
func (s *AuthService) Signup(ctx context.Context, name, email, password, role string) (string, *entity.User, error) {
	if name == "" || email == "" || password == "" {
		return "", nil, ErrMissingFields
	}
	if role == "" {
		role = string(entity.RoleBuyer)
	}
	parsedRole, err := entity.ParseRole(role)
	if err != nil {
		return "", nil, ErrInvalidRole
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.Error().Err(err).Msg("Error hashing password")
		return "", nil, err
	}

	user, err := s.users.Create(ctx, &entity.User{
		Name:         name,
		Email:        email,
		Role:         parsedRole,
		PasswordHash: hash,
	})
	if err != nil {
		if !errors.Is(err, repository.ErrDuplicateEmail) {
			logger.Error().Err(err).Msg("Error creating user")
		}
		return "", nil, err
	}

	token, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		logger.Error().Err(err).Msg("Error issuing token")
		return "", nil, err
	}
	return token, user, nil
}

// Login verifies credentials and returns a session token. A missing
// user and a wrong password both come back as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	if email == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		logger.Error().Err(err).Msg("Error looking up user by email")
		return "", nil, err
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Error().Err(err).Msg("Error verifying password")
		return "", nil, err
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		logger.Error().Err(err).Msg("Error issuing token")
		return "", nil, err
	}
	return token, user, nil
}

// Me returns the user record behind an authenticated principal.
func (s *AuthService) Me(ctx context.Context, userID int) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting user by ID %d", userID)
		}
		return nil, err
	}
	return user, nil
}
