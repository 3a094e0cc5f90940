package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is hidden from other shoppers until IsApproved is flipped out-of-band.
type Review struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	UserID     string    `json:"user_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}
