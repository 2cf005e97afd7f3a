package domain

import "time"

// RefreshToken is a stored session record. Every login adds one; logout
// removes all of a user's records.
type RefreshToken struct {
	ID           int64
	UserID       int64
	AccessToken  string
	RefreshToken string
	CreatedAt    time.Time
}
