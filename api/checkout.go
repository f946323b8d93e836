package api

import (
	"errors"
	"net/http"

	"foodflow/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Quote(c *gin.Context) {
	q, err := h.composer.Quote(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}
		h.log.Error("quote", err, map[string]any{"user_id": currentUserID(c)})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not price cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"restaurant":  q.Restaurant.Name,
		"items":       q.Summary,
		"subtotal":    q.Subtotal,
		"deliveryFee": h.composer.DeliveryFee,
		"serviceFee":  h.composer.ServiceFee,
		"total":       q.Total,
	})
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req struct {
		Method          string `json:"method" binding:"required,oneof=card delivery"`
		PaymentRef      string `json:"paymentRef"`
		DeliveryAddress string `json:"deliveryAddress" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "method and deliveryAddress are required"})
		return
	}
	if req.Method == services.PaymentMethodCard && req.PaymentRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paymentRef is required for card payments"})
		return
	}

	order, err := h.composer.PlaceOrder(c.Request.Context(), services.PlaceOrderInput{
		UserID:          currentUserID(c),
		Method:          req.Method,
		PaymentRef:      req.PaymentRef,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil && order == nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		case errors.Is(err, services.ErrPaymentFailed):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment could not be verified"})
		default:
			h.log.Error("place_order", err, map[string]any{"user_id": currentUserID(c)})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not place order"})
		}
		return
	}
	if err != nil {
		// The order row exists; a follow-up step (cart clear, event
		// publish) failed. The worker resumes live orders, so this is
		// log-only.
		h.log.Error("place_order_followup", err, map[string]any{"ref": order.Reference})
	}

	if h.notifier != nil {
		h.notifier.OrderPlaced(order)
	}
	c.JSON(http.StatusCreated, order)
}
