package repository

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailExists          = errors.New("email already exists")
	ErrUsernameExists       = errors.New("username already exists")
	ErrRoleNotFound         = errors.New("role not found")
	ErrInvalidRoleReference = errors.New("role type does not exist")
)
