package models

// RiderContact is static placeholder contact data for the tracking
// view; there is no real dispatch system behind it.
type RiderContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

var PlaceholderRider = RiderContact{
	Name:  "Emeka J.",
	Phone: "+2348012345678",
}

// TrackingUpdate is the payload streamed to order tracking clients.
type TrackingUpdate struct {
	OrderID   string       `json:"orderId"`
	Reference string       `json:"ref"`
	Status    string       `json:"status"`
	Step      int          `json:"step"` // 0-4 progress index
	Rider     RiderContact `json:"rider"`
}
