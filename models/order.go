package models

import "time"

// Order status labels. These are the user-visible strings stored in the
// database and streamed to tracking clients, so they are not renamed to
// snake_case.
const (
	OrderStatusPaid      = "Paid"
	OrderStatusPreparing = "Preparing"
	OrderStatusOnTheWay  = "On the Way"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// Order field names in JSON follow the original order documents.
type Order struct {
	ID              string    `json:"id"`
	Reference       string    `json:"ref"` // human-readable, #FD-######
	UserID          string    `json:"userId"`
	Restaurant      string    `json:"restaurant"`
	Items           string    `json:"items"` // "2x Burger, 1x Fries"
	Price           int64     `json:"price"` // grand total, naira
	Status          string    `json:"status"`
	PaymentRef      string    `json:"paymentRef"`
	DeliveryAddress string    `json:"deliveryAddress"`
	CreatedAt       time.Time `json:"-"`
}

// Date and Timestamp mirror the original document fields derived from
// the creation time.
func (o *Order) Date() string     { return o.CreatedAt.Format("02/01/2006") }
func (o *Order) Timestamp() int64 { return o.CreatedAt.UnixMilli() }

type CreateOrderInput struct {
	UserID          string
	Restaurant      string
	Items           string
	Price           int64
	PaymentRef      string
	DeliveryAddress string
}

type DailyStats struct {
	OrdersCount    int
	Revenue        int64
	CancelledCount int
}
