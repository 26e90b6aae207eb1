package app

import "context"

// ImageFetcher downloads the raw bytes behind an image URL.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// ImageFetcherFunc adapts a plain function to ImageFetcher.
type ImageFetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f ImageFetcherFunc) FetchImage(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}
