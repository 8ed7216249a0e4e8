package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RotateAPIKey replaces the current user's API key. The old key stops
// working immediately.
func (h *Handler) RotateAPIKey(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	newKey, err := h.userService.RotateAPIKey(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update API key"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"api_key": newKey})
}
