package services

import (
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/NickEsColR/link-shorterer-seo/internal/config"

	"github.com/oschwald/geoip2-golang"
)

// GeoIPService resolves an IP to a country name for click statistics.
// The mmdb database is optional: without one, lookups answer "Unknown"
// and everything else keeps working.
type GeoIPService struct {
	cfg       config.Config
	logger    *slog.Logger
	geoReader *geoip2.Reader
	geoLock   sync.RWMutex
}

func NewGeoIPService(cfg config.Config, logger *slog.Logger) *GeoIPService {
	return &GeoIPService{
		cfg:    cfg,
		logger: logger,
	}
}

func (s *GeoIPService) Init() {
	dbPath := s.cfg.GeoIPDBPath
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		s.logger.Warn("GeoIP: database not found, lookups disabled", "path", dbPath)
		return
	}

	s.geoLock.Lock()
	defer s.geoLock.Unlock()

	reader, err := geoip2.Open(dbPath)
	if err != nil {
		s.logger.Error("GeoIP: failed to open database", "path", dbPath, "error", err)
		return
	}
	s.geoReader = reader

	meta := reader.Metadata()
	s.logger.Info("GeoIP: loaded database", "epoch", meta.BuildEpoch)
}

func (s *GeoIPService) Close() {
	s.geoLock.Lock()
	defer s.geoLock.Unlock()

	if s.geoReader != nil {
		s.geoReader.Close()
		s.geoReader = nil
	}
}

func (s *GeoIPService) GetCountry(ipStr string) string {
	if ipStr == "127.0.0.1" || ipStr == "::1" {
		return "Localhost"
	}

	s.geoLock.RLock()
	reader := s.geoReader
	s.geoLock.RUnlock()

	if reader == nil {
		return "Unknown"
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return "Invalid IP"
	}

	record, err := reader.Country(ip)
	if err != nil {
		s.logger.Error("GeoIP: lookup error", "ip", ipStr, "error", err)
		return "Error"
	}

	if name, ok := record.Country.Names["en"]; ok && name != "" {
		return name
	}
	if record.Country.IsoCode != "" {
		return record.Country.IsoCode
	}
	return "Unknown"
}
