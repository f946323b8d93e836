package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodflow/db"
	"foodflow/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrOrderNotFound = errors.New("order not found")

// forwardStatus maps each status to its successor in the fulfillment
// chain. Terminal statuses have no entry.
var forwardStatus = map[string]string{
	models.OrderStatusPaid:      models.OrderStatusPreparing,
	models.OrderStatusPreparing: models.OrderStatusOnTheWay,
	models.OrderStatusOnTheWay:  models.OrderStatusDelivered,
}

// NextStatus returns the successor status, or "" for terminal states.
func NextStatus(status string) string {
	return forwardStatus[status]
}

// IsTerminalStatus reports whether the status ends fulfillment.
func IsTerminalStatus(status string) bool {
	return status == models.OrderStatusDelivered || status == models.OrderStatusCancelled
}

// ValidStatusTransition reports whether from -> to is allowed: one step
// forward along the chain, or a jump to Cancelled from any non-terminal
// state. A status never reverts.
func ValidStatusTransition(from, to string) bool {
	if to == models.OrderStatusCancelled {
		return from == models.OrderStatusPaid ||
			from == models.OrderStatusPreparing ||
			from == models.OrderStatusOnTheWay
	}
	return forwardStatus[from] == to && to != ""
}

// StatusStep maps a status to its progress-bar step index (0-4).
func StatusStep(status string) int {
	switch status {
	case models.OrderStatusPaid:
		return 1
	case models.OrderStatusPreparing:
		return 2
	case models.OrderStatusOnTheWay:
		return 3
	case models.OrderStatusDelivered:
		return 4
	default: // Cancelled or unknown
		return 0
	}
}

// CreateOrder inserts a new order with status Paid and a fresh id and
// human-readable reference.
func CreateOrder(ctx context.Context, input models.CreateOrderInput) (*models.Order, error) {
	ref, err := NewOrderRef()
	if err != nil {
		return nil, fmt.Errorf("generate order ref: %w", err)
	}
	o := &models.Order{
		ID:              uuid.NewString(),
		Reference:       ref,
		UserID:          input.UserID,
		Restaurant:      input.Restaurant,
		Items:           input.Items,
		Price:           input.Price,
		Status:          models.OrderStatusPaid,
		PaymentRef:      input.PaymentRef,
		DeliveryAddress: input.DeliveryAddress,
		CreatedAt:       time.Now(),
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO orders (id, reference, user_id, restaurant, items, price, status, payment_ref, delivery_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		o.ID, o.Reference, o.UserID, o.Restaurant, o.Items, o.Price, o.Status, o.PaymentRef, o.DeliveryAddress, o.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.Reference, &o.UserID, &o.Restaurant, &o.Items,
		&o.Price, &o.Status, &o.PaymentRef, &o.DeliveryAddress, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

const orderColumns = `id, reference, user_id, restaurant, items, price, status, payment_ref, delivery_address, created_at`

func GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return scanOrder(db.Pool.QueryRow(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

func ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func ListAllOrders(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]models.Order, error) {
	var list []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *o)
	}
	return list, rows.Err()
}

// AdvanceOrderStatus moves the order from -> to with a compare-and-set
// on the current status, so a cancel that lands first wins and the
// advance is a no-op. Each applied transition is recorded in
// order_status_history.
func AdvanceOrderStatus(ctx context.Context, orderID, from, to, actor string) (applied bool, err error) {
	if !ValidStatusTransition(from, to) {
		return false, fmt.Errorf("invalid status transition from %q to %q", from, to)
	}
	tag, err := db.Pool.Exec(ctx, `
		UPDATE orders SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3`,
		to, orderID, from,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO order_status_history (order_id, from_status, to_status, actor)
		VALUES ($1, $2, $3, $4)`,
		orderID, from, to, actor,
	)
	return true, err
}

// CancelOrder jumps the user's order to Cancelled from any non-terminal
// state. The CTE captures the pre-update status so the history row
// records the real transition.
func CancelOrder(ctx context.Context, orderID, userID string) error {
	var prev string
	err := db.Pool.QueryRow(ctx, `
		WITH prev AS (
			SELECT id, status FROM orders
			WHERE id = $2 AND user_id = $3 AND status NOT IN ($1, $4)
		)
		UPDATE orders SET status = $1, updated_at = now()
		FROM prev WHERE orders.id = prev.id
		RETURNING prev.status`,
		models.OrderStatusCancelled, orderID, userID, models.OrderStatusDelivered,
	).Scan(&prev)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return err
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO order_status_history (order_id, from_status, to_status, actor)
		VALUES ($1, $2, $3, $4)`,
		orderID, prev, models.OrderStatusCancelled, userID,
	)
	return err
}

// DeleteOrder removes a single order belonging to the user.
func DeleteOrder(ctx context.Context, orderID, userID string) error {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ClearOrderHistory deletes all of the user's terminal orders.
func ClearOrderHistory(ctx context.Context, userID string) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM orders WHERE user_id = $1 AND status IN ($2, $3)`,
		userID, models.OrderStatusDelivered, models.OrderStatusCancelled)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListLiveOrders returns orders still moving through the chain, used by
// the simulator to resume after a restart.
func ListLiveOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE status NOT IN ($1, $2)
		ORDER BY created_at`,
		models.OrderStatusDelivered, models.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func GetDailyStats(ctx context.Context, date string) (*models.DailyStats, error) {
	var s models.DailyStats
	err := db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*)::int,
			COALESCE(SUM(price) FILTER (WHERE status <> $2), 0)::bigint,
			COUNT(*) FILTER (WHERE status = $2)::int
		FROM orders
		WHERE created_at::date = $1::date`,
		date, models.OrderStatusCancelled,
	).Scan(&s.OrdersCount, &s.Revenue, &s.CancelledCount)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
