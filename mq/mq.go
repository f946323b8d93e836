package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"foodflow/config"
	"foodflow/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ordersExchange = "orders_topic"
	placedQueue    = "order_status.q"
	placedKey      = "order.placed"
)

// OrderPlacedEvent is what checkout hands to the status worker.
type OrderPlacedEvent struct {
	OrderID    string `json:"order_id"`
	Reference  string `json:"reference"`
	UserID     string `json:"user_id"`
	Restaurant string `json:"restaurant"`
	Total      int64  `json:"total"`
	Status     string `json:"status"`
	PlacedAt   int64  `json:"placed_at"`
}

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func Dial(cfg config.RabbitConfig) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.User, cfg.Password, cfg.Host, cfg.Port)
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	c := &Client{conn: conn, ch: ch}
	if err := c.declare(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) declare() error {
	if err := c.ch.ExchangeDeclare(ordersExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(placedQueue, true, false, false, false, nil); err != nil {
		return err
	}
	return c.ch.QueueBind(placedQueue, placedKey, ordersExchange, false, nil)
}

// OrderPlaced publishes a persistent order-placed event for the status
// worker.
func (c *Client) OrderPlaced(ctx context.Context, o *models.Order) error {
	body, err := json.Marshal(OrderPlacedEvent{
		OrderID:    o.ID,
		Reference:  o.Reference,
		UserID:     o.UserID,
		Restaurant: o.Restaurant,
		Total:      o.Price,
		Status:     o.Status,
		PlacedAt:   o.Timestamp(),
	})
	if err != nil {
		return err
	}
	return c.ch.PublishWithContext(ctx, ordersExchange, placedKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Body:         body,
	})
}

// ConsumeOrderPlaced delivers order-placed events; the caller must ack.
func (c *Client) ConsumeOrderPlaced(consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(placedQueue, consumer, false, false, false, false, nil)
}
