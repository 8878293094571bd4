package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	MedicineID int       `json:"medicine_id"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
}

// CartLine is a cart item joined with the current medicine record,
// the shape checkout and the cart listings work with.
type CartLine struct {
	ID           int             `json:"id"`
	UserID       int             `json:"user_id"`
	MedicineID   int             `json:"medicine_id"`
	Quantity     int             `json:"quantity"`
	CreatedAt    time.Time       `json:"created_at"`
	MedicineName string          `json:"medicine_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// Subtotal is quantity times the current unit price.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
