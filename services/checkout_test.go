package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"foodflow/models"
)

// In-memory fakes for the composer's collaborators.

type fakeCart struct {
	m       map[string]int
	cleared bool
}

func (f *fakeCart) Load(ctx context.Context, userID string, known func(string) bool) (map[string]int, error) {
	for id := range f.m {
		if !known(id) {
			f.m = map[string]int{}
			f.cleared = true
			return map[string]int{}, nil
		}
	}
	out := make(map[string]int, len(f.m))
	for k, v := range f.m {
		out[k] = v
	}
	return out, nil
}

func (f *fakeCart) Clear(ctx context.Context, userID string) error {
	f.m = map[string]int{}
	f.cleared = true
	return nil
}

type fakeMenu struct{ rest *models.Restaurant }

func (f *fakeMenu) RestaurantForItem(ctx context.Context, itemID string) (*models.Restaurant, error) {
	for _, it := range f.rest.Menu {
		if it.ID == itemID {
			return f.rest, nil
		}
	}
	return nil, ErrUnknownItem
}

type fakeGateway struct {
	status   string
	amount   int64
	currency string
	err      error
}

func (f *fakeGateway) Verify(ctx context.Context, ref string) (string, int64, string, error) {
	return f.status, f.amount, f.currency, f.err
}

type fakeEvents struct{ placed []*models.Order }

func (f *fakeEvents) OrderPlaced(ctx context.Context, o *models.Order) error {
	f.placed = append(f.placed, o)
	return nil
}

func testRestaurant() *models.Restaurant {
	return &models.Restaurant{
		ID:   1,
		Name: "Burger & Bliss",
		Menu: []models.MenuItem{
			{ID: "101", Name: "Classic Burger", Price: 5000},
			{ID: "102", Name: "Loaded Fries", Price: 3000},
		},
	}
}

func newComposer(c *fakeCart, created *[]*models.Order) (*Composer, *fakeGateway, *fakeEvents) {
	gw := &fakeGateway{status: "success", currency: "NGN"}
	ev := &fakeEvents{}
	comp := &Composer{
		Cart:        c,
		Menu:        &fakeMenu{rest: testRestaurant()},
		Gateway:     gw,
		Events:      ev,
		DeliveryFee: 1500,
		ServiceFee:  500,
		CreateOrder: func(ctx context.Context, in models.CreateOrderInput) (*models.Order, error) {
			ref, err := NewOrderRef()
			if err != nil {
				return nil, err
			}
			o := &models.Order{
				ID:         "test-order",
				Reference:  ref,
				UserID:     in.UserID,
				Restaurant: in.Restaurant,
				Items:      in.Items,
				Price:      in.Price,
				Status:     models.OrderStatusPaid,
				PaymentRef: in.PaymentRef,
			}
			*created = append(*created, o)
			return o, nil
		},
	}
	return comp, gw, ev
}

func TestQuoteTotals(t *testing.T) {
	c := &fakeCart{m: map[string]int{"101": 2, "102": 1}}
	var created []*models.Order
	comp, _, _ := newComposer(c, &created)

	q, err := comp.Quote(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Subtotal != 13000 {
		t.Errorf("subtotal = %d, want 13000", q.Subtotal)
	}
	if q.Total != 15000 {
		t.Errorf("total = %d, want 15000", q.Total)
	}
	if q.Summary != "2x Classic Burger, 1x Loaded Fries" {
		t.Errorf("summary = %q", q.Summary)
	}
}

func TestQuoteEmptyCart(t *testing.T) {
	c := &fakeCart{m: map[string]int{}}
	var created []*models.Order
	comp, _, _ := newComposer(c, &created)

	if _, err := comp.Quote(context.Background(), "u1"); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("err = %v, want ErrEmptyCart", err)
	}
}

func TestQuoteCorruptCartResets(t *testing.T) {
	// Every cart entry references an item no menu knows.
	c := &fakeCart{m: map[string]int{"999": 3}}
	var created []*models.Order
	comp, _, _ := newComposer(c, &created)

	_, err := comp.Quote(context.Background(), "u1")
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
	if !c.cleared {
		t.Error("corrupt cart was not reset")
	}
}

func TestPlaceOrderCardSuccess(t *testing.T) {
	c := &fakeCart{m: map[string]int{"101": 2, "102": 1}}
	var created []*models.Order
	comp, gw, ev := newComposer(c, &created)
	gw.amount = 15000 * 100 // kobo

	o, err := comp.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1", Method: PaymentMethodCard, PaymentRef: "T123", DeliveryAddress: "12 Admiralty Way",
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("orders created = %d, want exactly 1", len(created))
	}
	if !c.cleared || len(c.m) != 0 {
		t.Error("cart should be empty after a successful order")
	}
	if ok, _ := regexp.MatchString(`^#FD-\d{6}$`, o.Reference); !ok {
		t.Errorf("order reference %q does not match #FD-######", o.Reference)
	}
	if o.PaymentRef != "T123" {
		t.Errorf("payment ref = %q, want T123", o.PaymentRef)
	}
	if o.Price != 15000 {
		t.Errorf("price = %d, want 15000", o.Price)
	}
	if len(ev.placed) != 1 {
		t.Errorf("order placed events = %d, want 1", len(ev.placed))
	}
}

func TestPlaceOrderCardFailureLeavesState(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*fakeGateway)
	}{
		{"gateway error", func(g *fakeGateway) { g.err = errors.New("cancelled by user") }},
		{"not successful", func(g *fakeGateway) { g.status = "abandoned"; g.amount = 1500000 }},
		{"amount mismatch", func(g *fakeGateway) { g.amount = 100 }},
		{"wrong currency", func(g *fakeGateway) { g.amount = 1500000; g.currency = "USD" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeCart{m: map[string]int{"101": 2, "102": 1}}
			var created []*models.Order
			comp, gw, _ := newComposer(c, &created)
			tt.mut(gw)

			_, err := comp.PlaceOrder(context.Background(), PlaceOrderInput{
				UserID: "u1", Method: PaymentMethodCard, PaymentRef: "T123",
			})
			if !errors.Is(err, ErrPaymentFailed) {
				t.Fatalf("err = %v, want ErrPaymentFailed", err)
			}
			if len(created) != 0 {
				t.Error("no order record should be created")
			}
			if c.cleared {
				t.Error("cart must be left unchanged")
			}
		})
	}
}

func TestPlaceOrderPayOnDelivery(t *testing.T) {
	c := &fakeCart{m: map[string]int{"102": 2}}
	var created []*models.Order
	comp, _, _ := newComposer(c, &created)

	o, err := comp.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1", Method: PaymentMethodDelivery,
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if o.PaymentRef != PayOnDeliveryRef {
		t.Errorf("payment ref = %q, want %q", o.PaymentRef, PayOnDeliveryRef)
	}
	if o.Price != 3000*2+1500+500 {
		t.Errorf("price = %d, want 8000", o.Price)
	}
}

func TestItemsSummarySkipsMissing(t *testing.T) {
	menu := testRestaurant().Menu
	cartMap := map[string]int{"101": 1, "404": 5}
	if got := ItemsSummary(menu, cartMap); got != "1x Classic Burger" {
		t.Errorf("summary = %q, want %q", got, "1x Classic Burger")
	}
	if got := Subtotal(menu, cartMap); got != 5000 {
		t.Errorf("subtotal = %d, want 5000 (missing item skipped)", got)
	}
}

func TestNewOrderRef(t *testing.T) {
	re := regexp.MustCompile(`^#FD-\d{6}$`)
	for i := 0; i < 50; i++ {
		ref, err := NewOrderRef()
		if err != nil {
			t.Fatalf("NewOrderRef: %v", err)
		}
		if !re.MatchString(ref) {
			t.Fatalf("reference %q does not match #FD-######", ref)
		}
	}
}
