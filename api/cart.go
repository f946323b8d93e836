package api

import (
	"context"
	"net/http"

	"foodflow/cart"

	"github.com/gin-gonic/gin"
)

// GetCart returns the caller's cart, self-healed against the known
// menus: stale carts come back empty instead of breaking the render.
func (h *Handler) GetCart(c *gin.Context) {
	ctx := c.Request.Context()
	m, err := h.cart.Load(ctx, currentUserID(c), func(itemID string) bool {
		_, err := h.composer.Menu.RestaurantForItem(ctx, itemID)
		return err == nil
	})
	if err != nil {
		h.log.Error("get_cart", err, map[string]any{"user_id": currentUserID(c)})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": m, "count": cart.TotalItems(m)})
}

// AddCartItem merges a quantity delta (negative removes).
func (h *Handler) AddCartItem(c *gin.Context) {
	var req struct {
		ItemID string `json:"itemId" binding:"required"`
		Delta  int    `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemId and delta are required"})
		return
	}
	ctx := c.Request.Context()
	if req.Delta > 0 && !h.itemExists(ctx, req.ItemID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}

	m, err := h.cart.Add(ctx, currentUserID(c), req.ItemID, req.Delta)
	if err != nil {
		h.log.Error("add_cart_item", err, map[string]any{"user_id": currentUserID(c)})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": m, "count": cart.TotalItems(m)})
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), currentUserID(c)); err != nil {
		h.log.Error("clear_cart", err, map[string]any{"user_id": currentUserID(c)})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": gin.H{}, "count": 0})
}

func (h *Handler) itemExists(ctx context.Context, itemID string) bool {
	_, err := h.composer.Menu.RestaurantForItem(ctx, itemID)
	return err == nil
}
