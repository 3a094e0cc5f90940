package domain

import "time"

// Customer is a registered shopper. IDs are UUIDs so they can be carried in
// the subject claim of access tokens.
type Customer struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
