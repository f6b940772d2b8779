package driven

import "context"

// ImageFetcher downloads the bytes behind an image URL.
type ImageFetcher interface {
	// Fetch returns the body of url or an error for non-success responses.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
