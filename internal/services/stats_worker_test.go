package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/NickEsColR/link-shorterer-seo/internal/config"
	"github.com/NickEsColR/link-shorterer-seo/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStatsService(t *testing.T) {
	db := setupTestDB()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	geoIP := NewGeoIPService(config.Config{}, logger)
	service := NewStatsService(db, logger, geoIP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.Start(ctx)

	t.Run("Record and enrich click", func(t *testing.T) {
		service.RecordClickAsync(models.Click{
			LinkID:    1,
			IPAddress: "203.0.113.7",
			Platform:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			Referrer:  "https://social.example",
		})

		time.Sleep(100 * time.Millisecond)

		var click models.Click
		err := db.First(&click).Error
		assert.NoError(t, err)
		assert.Contains(t, click.Browser, "Chrome")
		assert.Equal(t, "Windows 10", click.OS)
		assert.Equal(t, "Desktop", click.DeviceType)
		assert.Equal(t, "Unknown", click.Country, "no geo database loaded")
		assert.Equal(t, "203.0.113.0", click.IPAddress, "IP is masked before storage")
	})

	t.Run("Channel full drops events", func(t *testing.T) {
		idle := NewStatsService(db, logger, geoIP)
		for i := 0; i < 1000; i++ {
			idle.RecordClickAsync(models.Click{LinkID: 1})
		}
		// Should drop without blocking
		idle.RecordClickAsync(models.Click{LinkID: 1})
	})
}

func TestStatsService_MaskIP(t *testing.T) {
	db := setupTestDB()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	service := NewStatsService(db, logger, NewGeoIPService(config.Config{}, logger))

	assert.Equal(t, "192.168.1.0", service.maskIP("192.168.1.55"))
	assert.Equal(t, "IPv6 (Masked)", service.maskIP("2001:db8::1"))
	assert.Equal(t, "garbage", service.maskIP("garbage"))
}
