package handlers

import (
	"net/http"
	"strconv"

	"github.com/NickEsColR/link-shorterer-seo/internal/services"

	"github.com/gin-gonic/gin"
)

// LinkQRCode renders a QR code PNG for an existing short link.
func (h *Handler) LinkQRCode(c *gin.Context) {
	shortCode := c.Param("short_code")

	outcome, err := h.resolver.Resolve(c.Request.Context(), shortCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if outcome.State != services.OutcomeFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}

	size, _ := strconv.Atoi(c.Query("size"))
	data, err := h.qrService.GeneratePNG(h.shortURL(shortCode), size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}
