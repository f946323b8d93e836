package api

import (
	"errors"
	"net/http"
	"strconv"

	"foodflow/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListRestaurants(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "24"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := services.ListRestaurants(c.Request.Context(),
		c.Query("city"), c.Query("category"), limit, offset)
	if err != nil {
		h.log.Error("list_restaurants", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load restaurants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": list})
}

func (h *Handler) GetRestaurant(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}
	r, err := services.GetRestaurant(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRestaurantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
			return
		}
		h.log.Error("get_restaurant", err, map[string]any{"id": id})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load restaurant"})
		return
	}
	c.JSON(http.StatusOK, r)
}
