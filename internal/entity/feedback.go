package entity

import "time"

type MedicineFeedback struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	MedicineID int       `json:"medicine_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type OrderFeedback struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	OrderID        int       `json:"order_id"`
	OrderQuality   int       `json:"order_quality"`
	DeliveryRating int       `json:"delivery_rating"`
	Comments       *string   `json:"comments,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ValidRating reports whether r is on the 1..5 scale.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
