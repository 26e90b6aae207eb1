package mastodon

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// mediaService implements app.ImageFetcher for avatars and attachments.
type mediaService struct {
	client *Client
}

// NewMediaService creates an ImageFetcher sharing the client's timeout.
func NewMediaService(client *Client) *mediaService {
	return &mediaService{client: client}
}

// FetchImage downloads an absolute http(s) URL. The body is returned as is;
// decoding is the caller's job.
func (s *mediaService) FetchImage(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid image url %q", rawURL)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported image url scheme %q", parsed.Scheme)
	}
	return s.client.getURL(ctx, rawURL)
}
