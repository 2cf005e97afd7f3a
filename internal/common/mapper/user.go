package mapper

import (
	userdomain "github.com/brand-registry/backend/internal/user/domain"
)

type UserResponse struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	FullName *string `json:"fullName"`
}

type RoleResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// LookupResponse is one row of a lookup table listing.
type LookupResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

func UserToResponse(user userdomain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
	}
}

func UsersToResponse(users []userdomain.User) []UserResponse {
	result := make([]UserResponse, len(users))
	for i, u := range users {
		result[i] = UserToResponse(u)
	}
	return result
}

// RoleToResponse maps a missing role to nil so it serializes as null.
func RoleToResponse(role *userdomain.Role) *RoleResponse {
	if role == nil {
		return nil
	}
	return &RoleResponse{Code: role.Code, Name: role.Name}
}

func RolesToLookup(roles []userdomain.Role) []LookupResponse {
	result := make([]LookupResponse, len(roles))
	for i, r := range roles {
		result[i] = LookupResponse{ID: r.ID, Name: r.Name, Code: r.Code}
	}
	return result
}
