package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"foodflow/models"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrUnknownItem   = errors.New("menu item not found")
	ErrPaymentFailed = errors.New("payment verification failed")
)

const (
	PaymentMethodCard     = "card"
	PaymentMethodDelivery = "delivery" // pay on delivery

	// Sentinel payment reference for non-card orders.
	PayOnDeliveryRef = "PAY-ON-DELIVERY"

	currencyNGN = "NGN"
)

// CartSource is the slice of the cart store the composer needs.
type CartSource interface {
	Load(ctx context.Context, userID string, knownItem func(itemID string) bool) (map[string]int, error)
	Clear(ctx context.Context, userID string) error
}

// MenuSource resolves a menu item to the restaurant that serves it,
// menu included. Returns ErrUnknownItem when no restaurant has it.
type MenuSource interface {
	RestaurantForItem(ctx context.Context, itemID string) (*models.Restaurant, error)
}

// PaymentVerifier confirms a gateway transaction reference server-side.
type PaymentVerifier interface {
	Verify(ctx context.Context, reference string) (status string, amountKobo int64, currency string, err error)
}

// OrderPlacedPublisher announces a freshly persisted order to the
// status worker.
type OrderPlacedPublisher interface {
	OrderPlaced(ctx context.Context, o *models.Order) error
}

// Composer turns a cart into an order: it prices the cart, settles the
// payment reference and persists exactly one order row, clearing the
// cart only after the insert succeeds.
type Composer struct {
	Cart        CartSource
	Menu        MenuSource
	Gateway     PaymentVerifier
	Events      OrderPlacedPublisher
	DeliveryFee int64
	ServiceFee  int64

	// CreateOrder is swappable for tests; defaults to the pg-backed one.
	CreateOrder func(ctx context.Context, input models.CreateOrderInput) (*models.Order, error)
}

type Quote struct {
	Restaurant *models.Restaurant
	Cart       map[string]int
	Subtotal   int64
	Total      int64
	Summary    string
}

type PlaceOrderInput struct {
	UserID          string
	Method          string // card or delivery
	PaymentRef      string // gateway reference, card only
	DeliveryAddress string
}

// Quote loads and validates the user's cart and prices it. A cart whose
// items match no known menu is reset and reported as empty rather than
// failing the render.
func (c *Composer) Quote(ctx context.Context, userID string) (*Quote, error) {
	m, err := c.Cart.Load(ctx, userID, func(itemID string) bool {
		_, err := c.Menu.RestaurantForItem(ctx, itemID)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, ErrEmptyCart
	}

	var rest *models.Restaurant
	for itemID := range m {
		r, err := c.Menu.RestaurantForItem(ctx, itemID)
		if err == nil {
			rest = r
			break
		}
	}
	if rest == nil {
		// Every entry is stale. Self-heal instead of propagating.
		_ = c.Cart.Clear(ctx, userID)
		return nil, ErrEmptyCart
	}

	subtotal := Subtotal(rest.Menu, m)
	return &Quote{
		Restaurant: rest,
		Cart:       m,
		Subtotal:   subtotal,
		Total:      subtotal + c.DeliveryFee + c.ServiceFee,
		Summary:    ItemsSummary(rest.Menu, m),
	}, nil
}

// PlaceOrder settles the payment and persists the order. For card
// payments the gateway transaction must be successful, in NGN and for
// the exact total in kobo; anything else leaves the cart and state
// untouched. Non-card orders persist immediately with the sentinel
// reference.
func (c *Composer) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	q, err := c.Quote(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	paymentRef := PayOnDeliveryRef
	if input.Method == PaymentMethodCard {
		status, amount, currency, err := c.Gateway.Verify(ctx, input.PaymentRef)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
		if status != "success" || currency != currencyNGN || amount != q.Total*100 {
			return nil, ErrPaymentFailed
		}
		paymentRef = input.PaymentRef
	}

	create := c.CreateOrder
	if create == nil {
		create = CreateOrder
	}
	order, err := create(ctx, models.CreateOrderInput{
		UserID:          input.UserID,
		Restaurant:      q.Restaurant.Name,
		Items:           q.Summary,
		Price:           q.Total,
		PaymentRef:      paymentRef,
		DeliveryAddress: input.DeliveryAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	// Cart is cleared only after the order row exists.
	if err := c.Cart.Clear(ctx, input.UserID); err != nil {
		return order, fmt.Errorf("clear cart after order %s: %w", order.Reference, err)
	}
	if c.Events != nil {
		if err := c.Events.OrderPlaced(ctx, order); err != nil {
			// The order exists; the worker will pick it up on resume.
			return order, fmt.Errorf("publish order placed: %w", err)
		}
	}
	return order, nil
}

// Subtotal sums price x qty over cart entries, skipping entries the
// menu no longer has.
func Subtotal(menu []models.MenuItem, cartMap map[string]int) int64 {
	var total int64
	for _, item := range menu {
		if qty, ok := cartMap[item.ID]; ok {
			total += item.Price * int64(qty)
		}
	}
	return total
}

// ItemsSummary renders "2x Burger, 1x Fries" in menu order, skipping
// cart entries whose items vanished from the menu.
func ItemsSummary(menu []models.MenuItem, cartMap map[string]int) string {
	var parts []string
	for _, item := range menu {
		if qty, ok := cartMap[item.ID]; ok {
			parts = append(parts, fmt.Sprintf("%dx %s", qty, item.Name))
		}
	}
	return strings.Join(parts, ", ")
}

// NewOrderRef generates a human-readable order reference like
// "#FD-483920".
func NewOrderRef() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#FD-%06d", 100000+n.Int64()), nil
}
