package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"medmarket/internal/auth"
	"medmarket/internal/entity"
	"medmarket/internal/repository"
)

const idempotencyKeyTTL = 24 * time.Hour

// AddressInput is the shipping address payload of a checkout request.
type AddressInput struct {
	Street    string `json:"street"`
	Building  string `json:"building"`
	Floor     string `json:"floor"`
	Apartment string `json:"apartment"`
}

// CheckoutService runs the cart-to-order workflow and the order
// read/status operations. The checkout sequence is the only
// multi-entity write in the system and always runs inside a single
// transaction. kafkaWriter and rdb may be nil (events and idempotency
// guard disabled).
type CheckoutService struct {
	orders      repository.OrderRepository
	carts       repository.CartRepository
	addresses   repository.AddressRepository
	medicines   repository.MedicineRepository
	tx          repository.TxManager
	kafkaWriter *kafka.Writer
	rdb         *redis.Client
}

// NewCheckoutService creates a new instance of CheckoutService.
func NewCheckoutService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	addresses repository.AddressRepository,
	medicines repository.MedicineRepository,
	tx repository.TxManager,
	kafkaWriter *kafka.Writer,
	rdb *redis.Client,
) *CheckoutService {
	return &CheckoutService{
		orders:      orders,
		carts:       carts,
		addresses:   addresses,
		medicines:   medicines,
		tx:          tx,
		kafkaWriter: kafkaWriter,
		rdb:         rdb,
	}
}

// Checkout converts the buyer's cart and the given address into an
// order. Inside one transaction: the cart is loaded under row locks,
// stock is reserved, the address and the order (with its full item
// snapshot) are written, and the cart is cleared. Any failure rolls
// the whole sequence back.
//
// idempotencyKey deduplicates client retries; pass "" when the
// client did not supply one.
func (s *CheckoutService) Checkout(ctx context.Context, p auth.Principal, addr AddressInput, idempotencyKey string) (*entity.Order, error) {
	if err := auth.Allow(p, auth.NoOwner, auth.CapBuyerWrite); err != nil {
		return nil, err
	}
	if addr.Street == "" || addr.Building == "" || addr.Floor == "" || addr.Apartment == "" {
		return nil, ErrMissingFields
	}

	if err := s.claimIdempotencyKey(ctx, idempotencyKey); err != nil {
		return nil, err
	}

	var created *entity.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// Cart first, so an empty cart leaves no address behind.
		lines, err := s.carts.LockByUser(ctx, p.UserID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		for _, line := range lines {
			if err := s.medicines.ReserveStock(ctx, line.MedicineID, line.Quantity); err != nil {
				return err
			}
		}

		address, err := s.addresses.Create(ctx, &entity.Address{
			UserID:    p.UserID,
			Street:    addr.Street,
			Building:  addr.Building,
			Floor:     addr.Floor,
			Apartment: addr.Apartment,
		})
		if err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]entity.OrderItem, 0, len(lines))
		for _, line := range lines {
			total = total.Add(line.Subtotal())
			items = append(items, entity.OrderItem{
				MedicineID: line.MedicineID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
			})
		}

		created, err = s.orders.Create(ctx, &entity.Order{
			OrderNumber: uuid.NewString(),
			UserID:      p.UserID,
			AddressID:   address.ID,
			TotalPrice:  total,
			Status:      entity.OrderStatusPending,
			Items:       items,
		})
		if err != nil {
			return err
		}

		return s.carts.DeleteByUser(ctx, p.UserID)
	})
	if err != nil {
		if !errors.Is(err, ErrEmptyCart) && !errors.Is(err, repository.ErrInsufficientStock) {
			logger.Error().Err(err).Msgf("Error checking out cart for user %d", p.UserID)
		}
		return nil, err
	}

	s.publishOrderEvent(ctx, created, "created")
	return created, nil
}

// MyOrders returns the principal's orders, newest first.
func (s *CheckoutService) MyOrders(ctx context.Context, p auth.Principal) ([]entity.Order, error) {
	orders, err := s.orders.ListByUser(ctx, p.UserID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing orders for user %d", p.UserID)
		return nil, err
	}
	return orders, nil
}

// ListAll returns every order. Admin route.
func (s *CheckoutService) ListAll(ctx context.Context) ([]entity.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing orders")
		return nil, err
	}
	return orders, nil
}

// GetOrder returns an order to its owner or an admin. Existence is
// resolved before ownership.
func (s *CheckoutService) GetOrder(ctx context.Context, p auth.Principal, id int) (*entity.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting order by ID %d", id)
		}
		return nil, err
	}
	if err := auth.Allow(p, order.UserID, auth.CapOwnedAccess); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves an order along its lifecycle. Admin route. Only
// forward transitions are accepted; cancelling restores the reserved
// stock inside the same transaction.
func (s *CheckoutService) UpdateStatus(ctx context.Context, id int, status string) (*entity.Order, error) {
	next, err := entity.ParseOrderStatus(status)
	if err != nil {
		return nil, ErrInvalidStatus
	}

	var updated *entity.Order
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		if next == entity.OrderStatusCancelled {
			for _, item := range order.Items {
				if err := s.medicines.RestoreStock(ctx, item.MedicineID, item.Quantity); err != nil {
					return err
				}
			}
		}

		if err := s.orders.UpdateStatus(ctx, id, next); err != nil {
			return err
		}
		order.Status = next
		updated = order
		return nil
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) && !errors.Is(err, ErrInvalidTransition) {
			logger.Error().Err(err).Msgf("Error updating status of order %d", id)
		}
		return nil, err
	}

	s.publishOrderEvent(ctx, updated, string(next))
	return updated, nil
}

// claimIdempotencyKey marks the key as seen, rejecting a second
// checkout carrying the same key within the TTL.
func (s *CheckoutService) claimIdempotencyKey(ctx context.Context, key string) error {
	if key == "" || s.rdb == nil {
		return nil
	}

	ok, err := s.rdb.SetNX(ctx, fmt.Sprintf("idempotent-key:%s", key), "exists", idempotencyKeyTTL).Result()
	if err != nil {
		logger.Error().Err(err).Msg("Error claiming idempotency key")
		return err
	}
	if !ok {
		return ErrDuplicateCheckout
	}
	return nil
}

// publishOrderEvent emits an order lifecycle event. Delivery is best
// effort: a broker failure is logged, never surfaced to the buyer
// whose order already committed.
func (s *CheckoutService) publishOrderEvent(ctx context.Context, order *entity.Order, event string) {
	if s.kafkaWriter == nil {
		return
	}

	orderJSON, err := json.Marshal(order)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling order %d", order.ID)
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%d", event, order.ID)),
		Value: orderJSON,
	}
	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing order-%s event for order %d", event, order.ID)
	}
}
