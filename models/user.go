package models

import "time"

const (
	UserRoleCustomer = "customer"
	UserRoleAdmin    = "admin"

	AuthProviderPassword = "password"
	AuthProviderGoogle   = "google"
)

type User struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Provider  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
