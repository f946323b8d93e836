package api

import (
	"net/http"
	"strconv"

	"foodflow/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListFavorites(c *gin.Context) {
	ids, err := services.ListFavorites(c.Request.Context(), h.cache.Redis(), currentUserID(c))
	if err != nil {
		h.log.Error("list_favorites", err, map[string]any{"user_id": currentUserID(c)})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": ids})
}

func (h *Handler) AddFavorite(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("restaurantId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}
	if err := services.AddFavorite(c.Request.Context(), h.cache.Redis(), currentUserID(c), id); err != nil {
		h.log.Error("add_favorite", err, map[string]any{"restaurant_id": id})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("restaurantId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}
	if err := services.RemoveFavorite(c.Request.Context(), h.cache.Redis(), currentUserID(c), id); err != nil {
		h.log.Error("remove_favorite", err, map[string]any{"restaurant_id": id})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}
