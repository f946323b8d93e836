package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Client wraps the Redis connection used for session state (carts,
// favorites) and for fanning out order status updates to tracking
// subscribers.
type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

func (c *Client) Redis() *redis.Client { return c.rdb }

func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func orderChannel(orderID string) string { return "orders:" + orderID }

// PublishOrderUpdate sends a payload to everyone tracking the order.
func (c *Client) PublishOrderUpdate(ctx context.Context, orderID string, payload []byte) error {
	return c.rdb.Publish(ctx, orderChannel(orderID), payload).Err()
}

// SubscribeOrder returns a subscription for a single order's updates.
// The caller must Close it when the tracking view goes away.
func (c *Client) SubscribeOrder(ctx context.Context, orderID string) *redis.PubSub {
	return c.rdb.Subscribe(ctx, orderChannel(orderID))
}
