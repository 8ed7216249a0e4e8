package handlers

import (
	"log/slog"
	"strings"

	"github.com/NickEsColR/link-shorterer-seo/internal/config"
	"github.com/NickEsColR/link-shorterer-seo/internal/models"
	"github.com/NickEsColR/link-shorterer-seo/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	cfg          config.Config
	logger       *slog.Logger
	db           *gorm.DB
	linkService  *services.LinkService
	resolver     *services.Resolver
	userService  *services.UserService
	statsService *services.StatsService
	qrService    *services.QRService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	db *gorm.DB,
	linkService *services.LinkService,
	resolver *services.Resolver,
	userService *services.UserService,
	statsService *services.StatsService,
	qrService *services.QRService,
) *Handler {
	return &Handler{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		linkService:  linkService,
		resolver:     resolver,
		userService:  userService,
		statsService: statsService,
		qrService:    qrService,
	}
}

func (h *Handler) shortURL(code string) string {
	return strings.TrimSuffix(h.cfg.BaseURL, "/") + "/" + code
}

// currentUser returns the user set by AuthRequired.
func currentUser(c *gin.Context) *models.User {
	if val, exists := c.Get("user"); exists {
		if user, ok := val.(*models.User); ok {
			return user
		}
	}
	return nil
}
