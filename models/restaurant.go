package models

type MenuItem struct {
	ID           string `json:"id"`
	RestaurantID int64  `json:"restaurantId"`
	Name         string `json:"name"`
	Price        int64  `json:"price"` // naira
	Description  string `json:"description"`
	Category     string `json:"category"`
}

type Restaurant struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Rating       float64    `json:"rating"`
	Reviews      string     `json:"reviews"`
	DeliveryTime string     `json:"deliveryTime"`
	MinOrder     int64      `json:"minOrder"`
	Image        string     `json:"image"`
	Categories   []string   `json:"categories"`
	City         string     `json:"city"`
	Address      string     `json:"address"`
	OpeningHours string     `json:"openingHours"`
	About        string     `json:"about"`
	Tags         []string   `json:"tags"`
	Menu         []MenuItem `json:"menu,omitempty"`
}
