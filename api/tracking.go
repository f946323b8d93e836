package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"foodflow/models"
	"foodflow/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// TrackOrder streams live status updates for one order over SSE: an
// initial snapshot, then every transition published by the status
// worker, until the order reaches a terminal state or the client goes
// away.
func (h *Handler) TrackOrder(c *gin.Context) {
	ctx := c.Request.Context()

	o, err := services.GetOrder(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		h.log.Error("track_order", err, map[string]any{"order_id": c.Param("id")})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load order"})
		return
	}
	if o.UserID != currentUserID(c) && c.GetString(ctxRole) != models.UserRoleAdmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	// Subscribe before reading the snapshot, so a transition published
	// in between arrives on the channel instead of being lost.
	sub := h.cache.SubscribeOrder(ctx, o.ID)
	defer sub.Close()

	if fresh, err := services.GetOrder(ctx, o.ID); err == nil {
		o = fresh
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	snapshot := models.TrackingUpdate{
		OrderID:   o.ID,
		Reference: o.Reference,
		Status:    o.Status,
		Step:      services.StatusStep(o.Status),
		Rider:     models.PlaceholderRider,
	}
	h.streamOrderUpdates(c, snapshot, sub.Channel())
}

// streamOrderUpdates writes the snapshot, then relays updates until a
// terminal status arrives, the channel closes or the client goes away.
func (h *Handler) streamOrderUpdates(c *gin.Context, snapshot models.TrackingUpdate, updates <-chan *redis.Message) {
	ctx := c.Request.Context()

	c.SSEvent("status", snapshot)
	c.Writer.Flush()
	if services.IsTerminalStatus(snapshot.Status) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-updates:
			if !ok {
				return
			}
			var upd models.TrackingUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &upd); err != nil {
				continue
			}
			c.SSEvent("status", upd)
			c.Writer.Flush()
			if services.IsTerminalStatus(upd.Status) {
				return
			}
		}
	}
}
