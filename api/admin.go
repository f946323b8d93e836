package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"foodflow/models"
	"foodflow/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AdminListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	list, err := services.ListAllOrders(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("admin_list_orders", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": viewOrders(list)})
}

func (h *Handler) AdminDailyStats(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	stats, err := services.GetDailyStats(c.Request.Context(), date)
	if err != nil {
		h.log.Error("admin_daily_stats", err, map[string]any{"date": date})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":      date,
		"orders":    stats.OrdersCount,
		"revenue":   stats.Revenue,
		"cancelled": stats.CancelledCount,
	})
}

func (h *Handler) AdminListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	list, err := services.ListUsers(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("admin_list_users", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

func (h *Handler) AdminSetRole(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required,oneof=customer admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and role are required"})
		return
	}
	if err := services.SetUserRole(c.Request.Context(), req.Email, req.Role); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no user with that email"})
			return
		}
		h.log.Error("admin_set_role", err, map[string]any{"email": req.Email})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": req.Email, "role": req.Role})
}

func (h *Handler) AdminListApplications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, err := services.ListPendingApplications(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("admin_list_applications", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load applications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": list})
}

func (h *Handler) AdminReviewApplication(c *gin.Context) {
	var req struct {
		Status       string `json:"status" binding:"required,oneof=approved rejected"`
		RejectReason string `json:"rejectReason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved or rejected"})
		return
	}
	if req.Status == models.ApplicationStatusRejected && req.RejectReason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rejectReason is required when rejecting"})
		return
	}

	err := services.ReviewApplication(c.Request.Context(), c.Param("id"),
		currentUserID(c), req.Status, req.RejectReason)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending application with that id"})
			return
		}
		h.log.Error("admin_review_application", err, map[string]any{"id": c.Param("id")})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not review application"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}
