package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"foodflow/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func newStreamContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/orders/o1/track", nil)
	return c, w
}

func trackingMessage(t *testing.T, upd models.TrackingUpdate) *redis.Message {
	t.Helper()
	payload, err := json.Marshal(upd)
	if err != nil {
		t.Fatalf("marshal update: %v", err)
	}
	return &redis.Message{Payload: string(payload)}
}

func TestStreamOrderUpdatesStopsAtTerminal(t *testing.T) {
	c, w := newStreamContext(t)

	updates := make(chan *redis.Message, 2)
	updates <- trackingMessage(t, models.TrackingUpdate{
		OrderID: "o1", Status: models.OrderStatusCancelled, Step: 0,
	})

	h := &Handler{}
	h.streamOrderUpdates(c, models.TrackingUpdate{
		OrderID: "o1", Status: models.OrderStatusOnTheWay, Step: 3,
	}, updates)

	// Must return after the terminal update without draining more of
	// the channel; both events land in the body.
	body := w.Body.String()
	if !strings.Contains(body, models.OrderStatusOnTheWay) {
		t.Errorf("snapshot missing from stream: %q", body)
	}
	if !strings.Contains(body, models.OrderStatusCancelled) {
		t.Errorf("terminal update missing from stream: %q", body)
	}
}

func TestStreamOrderUpdatesTerminalSnapshot(t *testing.T) {
	c, w := newStreamContext(t)

	// No update is ever published; a terminal snapshot must end the
	// stream on its own.
	h := &Handler{}
	h.streamOrderUpdates(c, models.TrackingUpdate{
		OrderID: "o1", Status: models.OrderStatusDelivered, Step: 4,
	}, make(chan *redis.Message))

	if !strings.Contains(w.Body.String(), models.OrderStatusDelivered) {
		t.Errorf("snapshot missing from stream: %q", w.Body.String())
	}
}

func TestStreamOrderUpdatesSkipsBadPayload(t *testing.T) {
	c, w := newStreamContext(t)

	updates := make(chan *redis.Message, 2)
	updates <- &redis.Message{Payload: "{not json"}
	updates <- trackingMessage(t, models.TrackingUpdate{
		OrderID: "o1", Status: models.OrderStatusDelivered, Step: 4,
	})

	h := &Handler{}
	h.streamOrderUpdates(c, models.TrackingUpdate{
		OrderID: "o1", Status: models.OrderStatusPreparing, Step: 2,
	}, updates)

	if !strings.Contains(w.Body.String(), models.OrderStatusDelivered) {
		t.Errorf("stream should survive an unreadable payload: %q", w.Body.String())
	}
}
