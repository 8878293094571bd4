package service

import (
	"context"
	"errors"

	"medmarket/internal/auth"
	"medmarket/internal/entity"
	"medmarket/internal/repository"
)

// CartService manages a buyer's cart. Stock is only compared here,
// never decremented; reservation happens at checkout.
type CartService struct {
	carts     repository.CartRepository
	medicines repository.MedicineRepository
}

// NewCartService creates a new instance of CartService.
func NewCartService(carts repository.CartRepository, medicines repository.MedicineRepository) *CartService {
	return &CartService{carts: carts, medicines: medicines}
}

// Add puts a medicine into the buyer's cart after checking the
// requested quantity against current stock.
func (s *CartService) Add(ctx context.Context, p auth.Principal, medicineID, quantity int) (*entity.CartItem, error) {
	if err := auth.Allow(p, auth.NoOwner, auth.CapBuyerWrite); err != nil {
		return nil, err
	}
	if medicineID <= 0 {
		return nil, ErrMissingFields
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	m, err := s.medicines.GetByID(ctx, medicineID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting medicine by ID %d", medicineID)
		}
		return nil, err
	}
	if quantity > m.Stock {
		return nil, repository.ErrInsufficientStock
	}

	item, err := s.carts.Create(ctx, &entity.CartItem{
		UserID:     p.UserID,
		MedicineID: medicineID,
		Quantity:   quantity,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error adding cart item")
		return nil, err
	}
	return item, nil
}

// ListAll returns every cart line. Admin route.
func (s *CartService) ListAll(ctx context.Context) ([]entity.CartLine, error) {
	lines, err := s.carts.ListAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing carts")
		return nil, err
	}
	return lines, nil
}

// MyCart returns the principal's cart joined with medicine details.
func (s *CartService) MyCart(ctx context.Context, p auth.Principal) ([]entity.CartLine, error) {
	lines, err := s.carts.ListByUser(ctx, p.UserID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing cart for user %d", p.UserID)
		return nil, err
	}
	return lines, nil
}

// UpdateQuantity changes an owned cart item's quantity, re-checking
// the stock ceiling.
func (s *CartService) UpdateQuantity(ctx context.Context, p auth.Principal, id, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	item, err := s.carts.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting cart item %d", id)
		}
		return err
	}
	if err := auth.Allow(p, item.UserID, auth.CapOwnedAccess); err != nil {
		return err
	}

	m, err := s.medicines.GetByID(ctx, item.MedicineID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting medicine by ID %d", item.MedicineID)
		}
		return err
	}
	if quantity > m.Stock {
		return repository.ErrInsufficientStock
	}

	if err := s.carts.UpdateQuantity(ctx, id, quantity); err != nil {
		logger.Error().Err(err).Msgf("Error updating cart item %d", id)
		return err
	}
	return nil
}

// Remove deletes an owned cart item.
func (s *CartService) Remove(ctx context.Context, p auth.Principal, id int) error {
	item, err := s.carts.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting cart item %d", id)
		}
		return err
	}
	if err := auth.Allow(p, item.UserID, auth.CapOwnedAccess); err != nil {
		return err
	}

	if err := s.carts.Delete(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error removing cart item %d", id)
		return err
	}
	return nil
}
