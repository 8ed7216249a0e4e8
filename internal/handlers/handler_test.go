package handlers

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/NickEsColR/link-shorterer-seo/internal/config"
	"github.com/NickEsColR/link-shorterer-seo/internal/models"
	"github.com/NickEsColR/link-shorterer-seo/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const testSubjectHeader = "X-Auth-Subject"

var testDBCounter atomic.Int64

func setupTestHandler() (*Handler, *gorm.DB) {
	return setupTestHandlerWithQuota(50)
}

func setupTestHandlerWithQuota(maxActive int) (*Handler, *gorm.DB) {
	dsn := fmt.Sprintf("file:handlerdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, _ := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	db.AutoMigrate(&models.User{}, &models.Link{}, &models.Metadata{}, &models.Click{}, &models.AuditLog{})

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Config{
		BaseURL:         "http://short.test",
		SessionSecret:   "test-secret-12345678901234567890123456789012",
		TrustedIDHeader: testSubjectHeader,
		MaxActiveLinks:  maxActive,
	}

	audit := services.NewAuditService(db, logger)
	allocator := services.NewCodeAllocator(6, 8)
	// No page fetcher: handler tests must not reach out to the network.
	linkService := services.NewLinkService(db, nil, allocator, nil, audit, cfg.MaxActiveLinks, logger)
	resolver := services.NewResolver(db, nil, logger)
	userService := services.NewUserService(db, logger)
	geoIP := services.NewGeoIPService(cfg, logger)
	stats := services.NewStatsService(db, logger, geoIP)
	qr := services.NewQRService()

	h := NewHandler(cfg, logger, db, linkService, resolver, userService, stats, qr)
	return h, db
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return h.SetupRouter(nil)
}
