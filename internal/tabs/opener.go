package tabs

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Opener defines the interface for opening a URL in a new tab
type Opener interface {
	// Open opens rawURL; it must not navigate anywhere on error
	Open(ctx context.Context, rawURL string) error
}

// Validate accepts absolute http and https URLs only.
func Validate(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("url is empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url %q has no host", rawURL)
	}
	return u, nil
}
