package handlers

import (
	"net/http"
	"strconv"

	"github.com/NickEsColR/link-shorterer-seo/internal/services"

	"github.com/gin-gonic/gin"
)

// ListLinks returns the management dashboard data for the current user.
func (h *Handler) ListLinks(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dashboard, err := h.linkService.ListLinks(c.Request.Context(), user.ID)
	if err != nil {
		h.renderLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

type UpdateMetadataRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// UpdateLinkMetadata applies a partial metadata edit to an owned link.
func (h *Handler) UpdateLinkMetadata(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	linkID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link id"})
		return
	}

	var req UpdateMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta, err := h.linkService.UpdateMetadata(c.Request.Context(), linkID, user.ID, services.MetadataUpdate{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}, c.ClientIP())
	if err != nil {
		h.renderLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, meta)
}

// DeleteLink soft-deletes an owned link. The code stays reserved.
func (h *Handler) DeleteLink(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	linkID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link id"})
		return
	}

	if err := h.linkService.SoftDelete(c.Request.Context(), linkID, user.ID, c.ClientIP()); err != nil {
		h.renderLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Link deleted"})
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
