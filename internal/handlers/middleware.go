package handlers

import (
	"net/http"

	"github.com/NickEsColR/link-shorterer-seo/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthRequired resolves the authenticated identity for mutating routes.
// Verification itself happens upstream (the identity provider or a proxy
// in front of this service); this middleware only maps a verified subject
// or an API key to a local user row, provisioning it on first contact.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		if sub, ok := session.Get("external_id").(string); ok && sub != "" {
			if user, err := h.userService.EnsureUser(c.Request.Context(), sub); err == nil {
				c.Set("user", user)
				c.Next()
				return
			}
		}

		if sub := c.GetHeader(h.cfg.TrustedIDHeader); sub != "" {
			user, err := h.userService.EnsureUser(c.Request.Context(), sub)
			if err == nil {
				session.Set("external_id", sub)
				if err := session.Save(); err != nil {
					h.logger.Warn("Failed to save session", "error", err)
				}
				c.Set("user", user)
				c.Next()
				return
			}
			h.logger.Error("Failed to provision user", "error", err)
		}

		if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
			if user, err := h.userService.FindByAPIKey(c.Request.Context(), apiKey); err == nil {
				c.Set("user", user)
				c.Next()
				return
			}
		}

		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		c.Abort()
	}
}

func (h *Handler) RateLimitMiddleware(limiter *services.IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		l := limiter.GetLimiter(ip)
		if !l.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
