package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"foodflow/models"
	"foodflow/services"

	"github.com/gin-gonic/gin"
)

type orderView struct {
	*models.Order
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"`
	Step      int    `json:"step"`
}

func viewOrder(o *models.Order) orderView {
	return orderView{
		Order:     o,
		Date:      o.Date(),
		Timestamp: o.Timestamp(),
		Step:      services.StatusStep(o.Status),
	}
}

func viewOrders(list []models.Order) []orderView {
	out := make([]orderView, 0, len(list))
	for i := range list {
		out = append(out, viewOrder(&list[i]))
	}
	return out
}

// ListOrders splits the caller's orders into active and past by
// terminal status.
func (h *Handler) ListOrders(c *gin.Context) {
	list, err := services.ListOrdersByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.log.Error("list_orders", err, map[string]any{"user_id": currentUserID(c)})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load orders"})
		return
	}
	var active, past []models.Order
	for _, o := range list {
		if services.IsTerminalStatus(o.Status) {
			past = append(past, o)
		} else {
			active = append(active, o)
		}
	}
	c.JSON(http.StatusOK, gin.H{"active": viewOrders(active), "past": viewOrders(past)})
}

func (h *Handler) CancelOrder(c *gin.Context) {
	ctx := c.Request.Context()
	err := services.CancelOrder(ctx, c.Param("id"), currentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found or already completed"})
			return
		}
		h.log.Error("cancel_order", err, map[string]any{"order_id": c.Param("id")})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not cancel order"})
		return
	}

	// Tell anyone tracking the order that it stopped.
	if o, err := services.GetOrder(ctx, c.Param("id")); err == nil {
		payload, _ := json.Marshal(models.TrackingUpdate{
			OrderID:   o.ID,
			Reference: o.Reference,
			Status:    o.Status,
			Step:      services.StatusStep(o.Status),
			Rider:     models.PlaceholderRider,
		})
		if err := h.cache.PublishOrderUpdate(ctx, o.ID, payload); err != nil {
			h.log.Error("cancel_publish", err, map[string]any{"order_id": o.ID})
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": models.OrderStatusCancelled})
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	err := services.DeleteOrder(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		h.log.Error("delete_order", err, map[string]any{"order_id": c.Param("id")})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ClearOrderHistory deletes all of the caller's delivered and
// cancelled orders.
func (h *Handler) ClearOrderHistory(c *gin.Context) {
	n, err := services.ClearOrderHistory(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.log.Error("clear_order_history", err, map[string]any{"user_id": currentUserID(c)})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear order history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
