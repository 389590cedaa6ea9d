package models

import "time"

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is a registered storefront account.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"` // unique across all users
	PasswordHash string     `json:"-"`     // never serialized to callers
	Role         string     `json:"role"`
	IsVerified   bool       `json:"is_verified"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AuthUser is the public view of a user, safe to hand to callers and to
// cache in the profile snapshot slot.
type AuthUser struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsVerified  bool       `json:"is_verified"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Public returns the auth view of the user.
func (u User) Public() AuthUser {
	return AuthUser{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		IsVerified:  u.IsVerified,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
