package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

var ErrFetchFailed = errors.New("failed to fetch page metadata")

// PageMeta is what a destination page advertises about itself. Empty
// fields mean the page did not declare them.
type PageMeta struct {
	Title       string
	Description string
	ImageURL    string
}

// PageFetcher extracts social-preview metadata from a destination URL.
// Implementations must honor ctx; callers treat any error as non-fatal.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (PageMeta, error)
}

// HTTPPageFetcher fetches a page over HTTP and reads its <title> and
// Open Graph / description meta tags.
type HTTPPageFetcher struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

func NewHTTPPageFetcher(timeout time.Duration, logger *slog.Logger) *HTTPPageFetcher {
	return &HTTPPageFetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		logger:  logger,
	}
}

func (f *HTTPPageFetcher) Fetch(ctx context.Context, url string) (PageMeta, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PageMeta{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return PageMeta{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PageMeta{}, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "text/html") {
		return PageMeta{}, fmt.Errorf("%w: unsupported content type %s", ErrFetchFailed, ct)
	}

	meta, err := extractPageMeta(resp)
	if err != nil {
		return PageMeta{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	f.logger.Debug("Fetched page metadata", "url", url, "title", meta.Title)
	return meta, nil
}

func extractPageMeta(resp *http.Response) (PageMeta, error) {
	doc, err := html.Parse(resp.Body)
	if err != nil {
		return PageMeta{}, err
	}

	var meta PageMeta
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if meta.Title == "" && n.FirstChild != nil {
					meta.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				applyMetaTag(&meta, n)
			case "body":
				// Meta tags live in <head>; no need to descend further.
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return meta, nil
}

func applyMetaTag(meta *PageMeta, n *html.Node) {
	var key, content string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "property", "name":
			key = attr.Val
		case "content":
			content = attr.Val
		}
	}
	if content == "" {
		return
	}

	switch key {
	case "og:title":
		meta.Title = content // og wins over <title>
	case "og:description":
		meta.Description = content
	case "description":
		if meta.Description == "" {
			meta.Description = content
		}
	case "og:image":
		meta.ImageURL = content
	}
}
