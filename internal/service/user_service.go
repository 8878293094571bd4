package service

import (
	"context"
	"errors"

	"medmarket/internal/auth"
	"medmarket/internal/entity"
	"medmarket/internal/repository"
)

// UserService covers the admin user operations and buyer addresses.
type UserService struct {
	users     repository.UserRepository
	addresses repository.AddressRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(users repository.UserRepository, addresses repository.AddressRepository) *UserService {
	return &UserService{users: users, addresses: addresses}
}

// ListUsers returns every user. Admin route.
func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing users")
		return nil, err
	}
	return users, nil
}

// CreateUser creates a user with an explicit role. Unlike signup, the
// role is required. Admin route.
func (s *UserService) CreateUser(ctx context.Context, name, email, password, role string) (*entity.User, error) {
	if name == "" || email == "" || password == "" || role == "" {
		return nil, ErrMissingFields
	}
	parsedRole, err := entity.ParseRole(role)
	if err != nil {
		return nil, ErrInvalidRole
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.Error().Err(err).Msg("Error hashing password")
		return nil, err
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
		return nil, err
	}
	return user, nil
}

// AddAddress creates an address owned by the buyer.
func (s *UserService) AddAddress(ctx context.Context, p auth.Principal, street, building, floor, apartment string) (*entity.Address, error) {
	if err := auth.Allow(p, auth.NoOwner, auth.CapBuyerWrite); err != nil {
		return nil, err
	}
	if street == "" || building == "" || floor == "" || apartment == "" {
		return nil, ErrMissingFields
	}

	addr, err := s.addresses.Create(ctx, &entity.Address{
		UserID:    p.UserID,
		Street:    street,
		Building:  building,
		Floor:     floor,
		Apartment: apartment,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error creating address")
		return nil, err
	}
	return addr, nil
}

// ListAddresses returns the principal's own addresses.
func (s *UserService) ListAddresses(ctx context.Context, p auth.Principal) ([]entity.Address, error) {
	addrs, err := s.addresses.ListByUser(ctx, p.UserID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing addresses for user %d", p.UserID)
		return nil, err
	}
	return addrs, nil
}

// GetAddress resolves existence before ownership.
func (s *UserService) GetAddress(ctx context.Context, p auth.Principal, id int) (*entity.Address, error) {
	addr, err := s.addresses.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting address %d", id)
		}
		return nil, err
	}
	if err := auth.Allow(p, addr.UserID, auth.CapOwnedAccess); err != nil {
		return nil, err
	}
	return addr, nil
}

// DeleteAddress removes an owned address.
func (s *UserService) DeleteAddress(ctx context.Context, p auth.Principal, id int) error {
	addr, err := s.addresses.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting address %d", id)
		}
		return err
	}
	if err := auth.Allow(p, addr.UserID, auth.CapOwnedAccess); err != nil {
		return err
	}

	if err := s.addresses.Delete(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error deleting address %d", id)
		return err
	}
	return nil
}
