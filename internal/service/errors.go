package service

import "errors"

// Domain errors shared across services. The api layer maps them to
// HTTP status codes; services never see status codes.
var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrInvalidPrice        = errors.New("price must be non-negative")
	ErrInvalidStock        = errors.New("stock must be non-negative")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrEmptyUpdate         = errors.New("at least one field is required to update")
	ErrDuplicateCheckout   = errors.New("duplicate checkout request")
	ErrFeedbackTargetUnset = errors.New("either medicine_id or order_id is required")
)
