package domain

import "time"

type User struct {
	ID           int64
	Email        string
	Username     string
	FullName     *string
	PasswordHash string
	RoleTypeID   int64
	CreatedAt    time.Time
}

// Role is a row of the role_type lookup table.
type Role struct {
	ID   int64
	Code string
	Name string
}

type Page struct {
	Users []User
	Total int64
}
