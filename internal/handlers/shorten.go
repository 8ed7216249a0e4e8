package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/NickEsColR/link-shorterer-seo/internal/services"

	"github.com/gin-gonic/gin"
)

type CreateLinkRequest struct {
	OriginalURL string     `json:"original_url" binding:"required,url"`
	CustomCode  string     `json:"custom_code,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// CreateLink handles the API request to shorten a URL
func (h *Handler) CreateLink(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	link, err := h.linkService.CreateLink(c.Request.Context(), services.CreateLinkInput{
		OwnerID:     user.ID,
		OriginalURL: req.OriginalURL,
		CustomCode:  req.CustomCode,
		ExpiresAt:   req.ExpiresAt,
		ClientIP:    c.ClientIP(),
	})
	if err != nil {
		h.renderLinkError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"short_code":   link.ShortCode,
		"short_url":    h.shortURL(link.ShortCode),
		"original_url": link.OriginalURL,
		"expires_at":   link.ExpiresAt,
		"metadata":     link.Metadata,
	})
}

func (h *Handler) renderLinkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidURL),
		errors.Is(err, services.ErrInvalidFormat),
		errors.Is(err, services.ErrInvalidExpiry):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCodeTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrQuotaExceeded):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrExhaustedRetries):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Link operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
