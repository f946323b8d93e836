package services

import (
	"context"
	"errors"
	"testing"

	"foodflow/db"
	"foodflow/models"
)

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.OrderStatusPaid, models.OrderStatusPreparing, true},
		{models.OrderStatusPaid, models.OrderStatusOnTheWay, false},
		{models.OrderStatusPaid, models.OrderStatusDelivered, false},
		{models.OrderStatusPreparing, models.OrderStatusOnTheWay, true},
		{models.OrderStatusPreparing, models.OrderStatusPaid, false},
		{models.OrderStatusOnTheWay, models.OrderStatusDelivered, true},
		{models.OrderStatusOnTheWay, models.OrderStatusPreparing, false},
		{models.OrderStatusDelivered, models.OrderStatusPaid, false},
		{models.OrderStatusPaid, models.OrderStatusCancelled, true},
		{models.OrderStatusPreparing, models.OrderStatusCancelled, true},
		{models.OrderStatusOnTheWay, models.OrderStatusCancelled, true},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPaid, false},
		{models.OrderStatusCancelled, models.OrderStatusCancelled, false},
		{"", models.OrderStatusPaid, false},
		{models.OrderStatusPaid, "", false},
	}
	for _, tt := range tests {
		got := ValidStatusTransition(tt.from, tt.to)
		if got != tt.want {
			t.Errorf("ValidStatusTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestForwardChainReachesDelivered(t *testing.T) {
	// Starting at Paid, exactly three forward transitions end at
	// Delivered without revisiting a state.
	status := models.OrderStatusPaid
	seen := map[string]bool{status: true}
	steps := 0
	for next := NextStatus(status); next != ""; next = NextStatus(status) {
		if seen[next] {
			t.Fatalf("status %q revisited", next)
		}
		seen[next] = true
		status = next
		steps++
	}
	if steps != 3 {
		t.Errorf("forward transitions = %d, want 3", steps)
	}
	if status != models.OrderStatusDelivered {
		t.Errorf("final status = %q, want %q", status, models.OrderStatusDelivered)
	}
	if !IsTerminalStatus(status) {
		t.Errorf("%q should be terminal", status)
	}
}

func TestStatusStep(t *testing.T) {
	tests := []struct {
		status string
		want   int
	}{
		{models.OrderStatusCancelled, 0},
		{models.OrderStatusPaid, 1},
		{models.OrderStatusPreparing, 2},
		{models.OrderStatusOnTheWay, 3},
		{models.OrderStatusDelivered, 4},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := StatusStep(tt.status); got != tt.want {
			t.Errorf("StatusStep(%q) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

// Integration test (requires DB). Skips when db.Pool is nil or -short.
func TestCancelOrderRecordsPriorStatus_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping cancel integration test in short mode")
	}
	if db.Pool == nil {
		t.Skip("skipping cancel integration test: no DB pool")
	}
	ctx := context.Background()
	const testEmail = "cancel-test@foodflow.test"

	u, err := CreateUser(ctx, "Cancel Tester", testEmail, "", "pa55word")
	if errors.Is(err, ErrEmailTaken) {
		u, err = GetUserByEmail(ctx, testEmail)
	}
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	o, err := CreateOrder(ctx, models.CreateOrderInput{
		UserID:          u.ID,
		Restaurant:      "Grill House",
		Items:           "1x Grilled Chicken",
		Price:           8000,
		PaymentRef:      PayOnDeliveryRef,
		DeliveryAddress: "Wuse 2, Abuja",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	defer func() { _ = DeleteOrder(ctx, o.ID, u.ID) }()

	if err := CancelOrder(ctx, o.ID, u.ID); err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}

	var from, to string
	err = db.Pool.QueryRow(ctx, `
		SELECT from_status, to_status FROM order_status_history
		WHERE order_id = $1 ORDER BY id DESC LIMIT 1`, o.ID,
	).Scan(&from, &to)
	if err != nil {
		t.Fatalf("read status history: %v", err)
	}
	if from != models.OrderStatusPaid {
		t.Errorf("history from_status = %q, want %q", from, models.OrderStatusPaid)
	}
	if to != models.OrderStatusCancelled {
		t.Errorf("history to_status = %q, want %q", to, models.OrderStatusCancelled)
	}
}

func TestIsTerminalStatus(t *testing.T) {
	for _, s := range []string{models.OrderStatusPaid, models.OrderStatusPreparing, models.OrderStatusOnTheWay} {
		if IsTerminalStatus(s) {
			t.Errorf("%q should not be terminal", s)
		}
	}
	for _, s := range []string{models.OrderStatusDelivered, models.OrderStatusCancelled} {
		if !IsTerminalStatus(s) {
			t.Errorf("%q should be terminal", s)
		}
	}
}
