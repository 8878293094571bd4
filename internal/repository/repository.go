package repository

import (
	"context"
	"errors"

	"medmarket/internal/entity"
)

// ErrNotFound is returned when an entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a user email collides with the
// unique index.
var ErrDuplicateEmail = errors.New("email already exists")

// ErrInsufficientStock is returned by ReserveStock when the requested
// quantity exceeds the medicine's current stock.
var ErrInsufficientStock = errors.New("insufficient stock")

type UserRepository interface {
	Create(ctx context.Context, u *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id int) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
}

type AddressRepository interface {
	Create(ctx context.Context, a *entity.Address) (*entity.Address, error)
	GetByID(ctx context.Context, id int) (*entity.Address, error)
	ListByUser(ctx context.Context, userID int) ([]entity.Address, error)
	Delete(ctx context.Context, id int) error
}

type MedicineRepository interface {
	Create(ctx context.Context, m *entity.Medicine) (*entity.Medicine, error)
	GetByID(ctx context.Context, id int) (*entity.Medicine, error)
	List(ctx context.Context) ([]entity.Medicine, error)
	Update(ctx context.Context, id int, u entity.MedicineUpdate) error
	Delete(ctx context.Context, id int) error

	// ReserveStock atomically decrements stock by quantity, failing
	// with ErrInsufficientStock when not enough is left.
	ReserveStock(ctx context.Context, id, quantity int) error
	// RestoreStock adds quantity back, used when an order is cancelled.
	RestoreStock(ctx context.Context, id, quantity int) error
}

type CartRepository interface {
	Create(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error)
	GetByID(ctx context.Context, id int) (*entity.CartItem, error)
	ListByUser(ctx context.Context, userID int) ([]entity.CartLine, error)
	ListAll(ctx context.Context) ([]entity.CartLine, error)
	UpdateQuantity(ctx context.Context, id, quantity int) error
	Delete(ctx context.Context, id int) error
	DeleteByUser(ctx context.Context, userID int) error

	// LockByUser loads the user's cart joined with current medicine
	// prices, holding row locks until the surrounding transaction
	// ends. Outside a transaction it behaves like ListByUser.
	LockByUser(ctx context.Context, userID int) ([]entity.CartLine, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) (*entity.Order, error)
	GetByID(ctx context.Context, id int) (*entity.Order, error)
	ListByUser(ctx context.Context, userID int) ([]entity.Order, error)
	ListAll(ctx context.Context) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id int, status entity.OrderStatus) error
}

type FeedbackRepository interface {
	CreateMedicineFeedback(ctx context.Context, f *entity.MedicineFeedback) (*entity.MedicineFeedback, error)
	CreateOrderFeedback(ctx context.Context, f *entity.OrderFeedback) (*entity.OrderFeedback, error)
	ListMedicineFeedback(ctx context.Context) ([]entity.MedicineFeedback, error)
	ListOrderFeedbackByUser(ctx context.Context, userID int) ([]entity.OrderFeedback, error)
	GetOrderFeedbackByID(ctx context.Context, id int) (*entity.OrderFeedback, error)
	UpdateOrderFeedback(ctx context.Context, f *entity.OrderFeedback) error
}

// TxManager runs fn inside a single all-or-nothing unit of work. Any
// error from fn rolls everything back.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
