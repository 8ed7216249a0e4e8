package services

import (
	"github.com/skip2/go-qrcode"
)

const (
	qrMinSize     = 64
	qrMaxSize     = 1024
	qrDefaultSize = 256
)

type QRService struct{}

func NewQRService() *QRService {
	return &QRService{}
}

// GeneratePNG renders a QR code for the given content. Size is clamped
// to a sane pixel range; zero means the default.
func (s *QRService) GeneratePNG(content string, size int) ([]byte, error) {
	if size == 0 {
		size = qrDefaultSize
	}
	if size < qrMinSize {
		size = qrMinSize
	}
	if size > qrMaxSize {
		size = qrMaxSize
	}

	return qrcode.Encode(content, qrcode.Medium, size)
}
