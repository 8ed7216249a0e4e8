package services

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPPageFetcher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	t.Run("Extracts og tags", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><head>
				<title>Fallback Title</title>
				<meta property="og:title" content="OG Title">
				<meta property="og:description" content="OG Description">
				<meta property="og:image" content="https://example.com/img.png">
			</head><body></body></html>`))
		}))
		defer srv.Close()

		fetcher := NewHTTPPageFetcher(2*time.Second, logger)
		meta, err := fetcher.Fetch(context.Background(), srv.URL)

		assert.NoError(t, err)
		assert.Equal(t, "OG Title", meta.Title)
		assert.Equal(t, "OG Description", meta.Description)
		assert.Equal(t, "https://example.com/img.png", meta.ImageURL)
	})

	t.Run("Falls back to title and description tags", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><head>
				<title>Plain Title</title>
				<meta name="description" content="Plain Description">
			</head><body></body></html>`))
		}))
		defer srv.Close()

		fetcher := NewHTTPPageFetcher(2*time.Second, logger)
		meta, err := fetcher.Fetch(context.Background(), srv.URL)

		assert.NoError(t, err)
		assert.Equal(t, "Plain Title", meta.Title)
		assert.Equal(t, "Plain Description", meta.Description)
		assert.Empty(t, meta.ImageURL)
	})

	t.Run("Error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		fetcher := NewHTTPPageFetcher(2*time.Second, logger)
		_, err := fetcher.Fetch(context.Background(), srv.URL)

		assert.ErrorIs(t, err, ErrFetchFailed)
	})

	t.Run("Non-HTML content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		fetcher := NewHTTPPageFetcher(2*time.Second, logger)
		_, err := fetcher.Fetch(context.Background(), srv.URL)

		assert.ErrorIs(t, err, ErrFetchFailed)
	})

	t.Run("Slow server times out", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		}))
		defer srv.Close()

		fetcher := NewHTTPPageFetcher(50*time.Millisecond, logger)
		start := time.Now()
		_, err := fetcher.Fetch(context.Background(), srv.URL)

		assert.ErrorIs(t, err, ErrFetchFailed)
		assert.Less(t, time.Since(start), 400*time.Millisecond)
	})

	t.Run("Unreachable host", func(t *testing.T) {
		fetcher := NewHTTPPageFetcher(100*time.Millisecond, logger)
		_, err := fetcher.Fetch(context.Background(), "http://localhost:1")

		assert.ErrorIs(t, err, ErrFetchFailed)
	})
}
