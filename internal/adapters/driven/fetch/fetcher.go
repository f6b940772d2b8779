// Package fetch downloads remote images referenced from markdown.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ImageFetcher = (*Fetcher)(nil)

// Config configures the fetcher.
type Config struct {
	Timeout   time.Duration // HTTP timeout. Default: 30s.
	MaxBytes  int64         // Max response body size. Default: 20MB.
	UserAgent string

	// MaxRedirects bounds redirect chains. Default: 5.
	MaxRedirects int
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = domain.DefaultTimeout
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = domain.DefaultMediaMaxMB * 1024 * 1024
	}
	if c.UserAgent == "" {
		c.UserAgent = "docsync/1.0"
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = 5
	}
}

// Fetcher retrieves image bytes over HTTP(S).
type Fetcher struct {
	client *http.Client
	config Config
}

// New creates a Fetcher that only follows http and https redirects.
func New(cfg Config) *Fetcher {
	cfg.defaults()
	maxRedirects := cfg.MaxRedirects
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				if err := checkScheme(req.URL); err != nil {
					return fmt.Errorf("redirect blocked: %w", err)
				}
				return nil
			},
		},
		config: cfg,
	}
}

// Fetch downloads rawURL. Non-2xx responses and bodies larger than
// MaxBytes are errors.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse url: %v", domain.ErrInvalidInput, err)
	}
	if err := checkScheme(u); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to download image: %s", resp.Status)
	}
	if resp.ContentLength > f.config.MaxBytes {
		return nil, fmt.Errorf("image too large: %d bytes exceeds %d", resp.ContentLength, f.config.MaxBytes)
	}

	// Read one byte past the limit to detect oversized bodies without a
	// Content-Length.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBytes {
		return nil, fmt.Errorf("image too large: exceeds %d bytes", f.config.MaxBytes)
	}
	return body, nil
}

func checkScheme(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", domain.ErrInvalidInput, u.Scheme)
	}
	return nil
}
