package models

import "time"

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// Application is a partner request to list a restaurant on the platform.
type Application struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	RestaurantName string    `json:"restaurantName"`
	City           string    `json:"city"`
	Phone          string    `json:"phone"`
	Status         string    `json:"status"`
	ReviewedBy     *string   `json:"reviewedBy,omitempty"`
	RejectReason   *string   `json:"rejectReason,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
