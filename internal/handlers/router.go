package handlers

import (
	"github.com/NickEsColR/link-shorterer-seo/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter) *gin.Engine {
	r := gin.Default()

	// Middleware
	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	r.Use(sessions.Sessions("shortener_session", store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Protected API
	api := r.Group("/api/v1")
	api.Use(h.AuthRequired())
	{
		api.POST("/links", h.CreateLink)
		api.GET("/links", h.ListLinks)
		api.PATCH("/links/:id/metadata", h.UpdateLinkMetadata)
		api.DELETE("/links/:id", h.DeleteLink)
		api.POST("/account/apikey", h.RotateAPIKey)
	}

	// Catch-all Redirects
	r.GET("/:short_code", h.RedirectToURL)
	r.GET("/:short_code/qr", h.LinkQRCode)

	return r
}
