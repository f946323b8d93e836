package api

import (
	"errors"
	"net/http"

	"foodflow/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SubmitApplication(c *gin.Context) {
	var req struct {
		RestaurantName string `json:"restaurantName" binding:"required"`
		City           string `json:"city" binding:"required"`
		Phone          string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restaurantName and city are required"})
		return
	}

	id, err := services.CreateApplication(c.Request.Context(), currentUserID(c),
		req.RestaurantName, req.City, req.Phone)
	if err != nil {
		if errors.Is(err, services.ErrApplicationExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "you already have a pending or approved application"})
			return
		}
		h.log.Error("submit_application", err, map[string]any{"user_id": currentUserID(c)})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit application"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "status": "pending"})
}

func (h *Handler) ListMyApplications(c *gin.Context) {
	list, err := services.ListApplicationsByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.log.Error("list_applications", err, map[string]any{"user_id": currentUserID(c)})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load applications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": list})
}
