package api

import (
	"errors"
	"fmt"
	"net/http"

	"foodflow/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Signup(c *gin.Context) {
	var req struct {
		FullName        string `json:"fullName" binding:"required"`
		Email           string `json:"email" binding:"required,email"`
		Phone           string `json:"phone"`
		Password        string `json:"password" binding:"required,min=6"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signup payload"})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
		return
	}

	u, err := services.CreateUser(c.Request.Context(), req.FullName, req.Email, req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		h.log.Error("signup", err, map[string]any{"email": req.Email})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
		return
	}

	token, err := services.IssueToken(h.cfg.Auth.JWTSecret, u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue session"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u, "token": token})
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login payload"})
		return
	}
	ctx := c.Request.Context()

	if wait, _ := services.LoginThrottleWaitSeconds(ctx, req.Email); wait > 0 {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("too many attempts, retry in %ds", wait),
		})
		return
	}

	u, err := services.VerifyLogin(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			_ = services.RecordLoginFailed(ctx, req.Email)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		h.log.Error("login", err, map[string]any{"email": req.Email})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	_ = services.RecordLoginSuccess(ctx, req.Email)

	token, err := services.IssueToken(h.cfg.Auth.JWTSecret, u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}

func (h *Handler) GoogleSignIn(c *gin.Context) {
	var req struct {
		IDToken string `json:"idToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "idToken is required"})
		return
	}
	ctx := c.Request.Context()

	id, err := h.google.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		if errors.Is(err, services.ErrGoogleTokenInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "google sign-in rejected"})
			return
		}
		h.log.Error("google_signin", err, nil)
		c.JSON(http.StatusBadGateway, gin.H{"error": "google sign-in unavailable"})
		return
	}

	u, err := services.EnsureGoogleUser(ctx, id.Email, id.Name)
	if err != nil {
		h.log.Error("google_user", err, map[string]any{"email": id.Email})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign in"})
		return
	}

	token, err := services.IssueToken(h.cfg.Auth.JWTSecret, u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}

func (h *Handler) Me(c *gin.Context) {
	u, err := services.GetUserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	if err := services.DeleteUser(c.Request.Context(), currentUserID(c)); err != nil {
		h.log.Error("delete_account", err, map[string]any{"user_id": currentUserID(c)})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
