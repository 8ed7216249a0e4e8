package handlers

import (
	"net/http"
	"time"

	"github.com/NickEsColR/link-shorterer-seo/internal/models"
	"github.com/NickEsColR/link-shorterer-seo/internal/services"

	"github.com/gin-gonic/gin"
)

// RedirectToURL resolves a short code and either redirects or, with
// ?preview=1, returns the metadata snapshot for an interstitial page.
// Expired links get a dedicated 410 so callers can render "link expired"
// instead of a generic 404.
func (h *Handler) RedirectToURL(c *gin.Context) {
	shortCode := c.Param("short_code")

	outcome, err := h.resolver.Resolve(c.Request.Context(), shortCode)
	if err != nil {
		h.logger.Error("Resolve failed", "short_code", shortCode, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	switch outcome.State {
	case services.OutcomeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
	case services.OutcomeExpired:
		c.JSON(http.StatusGone, gin.H{"error": "This link has expired"})
	case services.OutcomeFound:
		// A preview is not a visit. The click is counted only on the
		// actual redirect, otherwise interstitial-then-follow would
		// record twice.
		if c.Query("preview") != "" {
			c.JSON(http.StatusOK, gin.H{
				"short_url":    h.shortURL(shortCode),
				"original_url": outcome.OriginalURL,
				"metadata":     outcome.Metadata,
			})
			return
		}

		h.statsService.RecordClickAsync(models.Click{
			LinkID:    outcome.LinkID,
			Timestamp: time.Now(),
			IPAddress: c.ClientIP(),
			Referrer:  c.Request.Referer(),
			Platform:  c.Request.UserAgent(),
		})

		c.Redirect(http.StatusFound, outcome.OriginalURL)
	}
}
