package entity

import "github.com/shopspring/decimal"

type Medicine struct {
	ID          int             `json:"id"`
	UserID      int             `json:"user_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ExpiryDate  *string         `json:"expiry_date,omitempty"`
	Description *string         `json:"description,omitempty"`
}

// MedicineUpdate carries the optional fields of a partial update.
// A nil field is left untouched.
type MedicineUpdate struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	ExpiryDate  *string          `json:"expiry_date"`
	Description *string          `json:"description"`
}

func (u MedicineUpdate) Empty() bool {
	return u.Name == nil && u.Price == nil && u.Stock == nil && u.ExpiryDate == nil && u.Description == nil
}
