package handlers

import (
	"errors"
	"net/http"
	"strings"

	"wikiboard/internal/domain"
	"wikiboard/internal/service"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
}

// Login fetches or registers the user by name and issues a token. The
// host wiki normally supplies the identity; this endpoint stands in for
// it when the service runs on its own.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			respondError(c, err)
			return
		}
		user = &domain.User{Username: req.Username, Registered: true}
		if err := h.Users.Create(ctx, user); err != nil {
			respondError(c, err)
			return
		}
	}

	token, err := service.GenerateJWT(user.ID, user.Registered)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Me returns the authenticated user's stored profile.
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	user, err := h.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
