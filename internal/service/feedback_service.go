package service

import (
	"context"
	"errors"

	"medmarket/internal/auth"
	"medmarket/internal/entity"
	"medmarket/internal/repository"
)

// FeedbackService handles medicine feedback and order feedback.
type FeedbackService struct {
	feedback  repository.FeedbackRepository
	medicines repository.MedicineRepository
	orders    repository.OrderRepository
}

// NewFeedbackService creates a new instance of FeedbackService.
func NewFeedbackService(feedback repository.FeedbackRepository, medicines repository.MedicineRepository, orders repository.OrderRepository) *FeedbackService {
	return &FeedbackService{feedback: feedback, medicines: medicines, orders: orders}
}

// AddMedicineFeedback records a buyer's rating of a medicine.
func (s *FeedbackService) AddMedicineFeedback(ctx context.Context, p auth.Principal, medicineID, rating int, comment *string) (*entity.MedicineFeedback, error) {
	if err := auth.Allow(p, auth.NoOwner, auth.CapBuyerWrite); err != nil {
		return nil, err
	}
	if !entity.ValidRating(rating) {
		return nil, ErrInvalidRating
	}

	if _, err := s.medicines.GetByID(ctx, medicineID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting medicine by ID %d", medicineID)
		}
		return nil, err
	}

	f, err := s.feedback.CreateMedicineFeedback(ctx, &entity.MedicineFeedback{
		UserID:     p.UserID,
		MedicineID: medicineID,
		Rating:     rating,
		Comment:    comment,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error creating medicine feedback")
		return nil, err
	}
	return f, nil
}

// AddOrderFeedback records a buyer's rating of one of their orders.
func (s *FeedbackService) AddOrderFeedback(ctx context.Context, p auth.Principal, orderID, orderQuality, deliveryRating int, comments *string) (*entity.OrderFeedback, error) {
	if err := auth.Allow(p, auth.NoOwner, auth.CapBuyerWrite); err != nil {
		return nil, err
	}
	if !entity.ValidRating(orderQuality) || !entity.ValidRating(deliveryRating) {
		return nil, ErrInvalidRating
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting order by ID %d", orderID)
		}
		return nil, err
	}
	if err := auth.Allow(p, order.UserID, auth.CapOwnedAccess); err != nil {
		return nil, err
	}

	f, err := s.feedback.CreateOrderFeedback(ctx, &entity.OrderFeedback{
		UserID:         p.UserID,
		OrderID:        orderID,
		OrderQuality:   orderQuality,
		DeliveryRating: deliveryRating,
		Comments:       comments,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error creating order feedback")
		return nil, err
	}
	return f, nil
}

// ListMedicineFeedback returns all medicine feedback. Admin route.
func (s *FeedbackService) ListMedicineFeedback(ctx context.Context) ([]entity.MedicineFeedback, error) {
	feedback, err := s.feedback.ListMedicineFeedback(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing medicine feedback")
		return nil, err
	}
	return feedback, nil
}

// MyOrderFeedback returns the principal's own order feedback.
func (s *FeedbackService) MyOrderFeedback(ctx context.Context, p auth.Principal) ([]entity.OrderFeedback, error) {
	feedback, err := s.feedback.ListOrderFeedbackByUser(ctx, p.UserID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing feedback for user %d", p.UserID)
		return nil, err
	}
	return feedback, nil
}

// GetOrderFeedback returns one feedback entry to its owner or an admin.
func (s *FeedbackService) GetOrderFeedback(ctx context.Context, p auth.Principal, id int) (*entity.OrderFeedback, error) {
	f, err := s.feedback.GetOrderFeedbackByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting feedback %d", id)
		}
		return nil, err
	}
	if err := auth.Allow(p, f.UserID, auth.CapOwnedAccess); err != nil {
		return nil, err
	}
	return f, nil
}

// UpdateOrderFeedback applies a partial update by the owner or an
// admin.
func (s *FeedbackService) UpdateOrderFeedback(ctx context.Context, p auth.Principal, id int, orderQuality, deliveryRating *int, comments *string) (*entity.OrderFeedback, error) {
	if orderQuality == nil && deliveryRating == nil && comments == nil {
		return nil, ErrEmptyUpdate
	}
	if orderQuality != nil && !entity.ValidRating(*orderQuality) {
		return nil, ErrInvalidRating
	}
	if deliveryRating != nil && !entity.ValidRating(*deliveryRating) {
		return nil, ErrInvalidRating
	}

	f, err := s.feedback.GetOrderFeedbackByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting feedback %d", id)
		}
		return nil, err
	}
	if err := auth.Allow(p, f.UserID, auth.CapOwnedAccess); err != nil {
		return nil, err
	}

	if orderQuality != nil {
		f.OrderQuality = *orderQuality
	}
	if deliveryRating != nil {
		f.DeliveryRating = *deliveryRating
	}
	if comments != nil {
		f.Comments = comments
	}

	if err := s.feedback.UpdateOrderFeedback(ctx, f); err != nil {
		logger.Error().Err(err).Msgf("Error updating feedback %d", id)
		return nil, err
	}
	return f, nil
}
