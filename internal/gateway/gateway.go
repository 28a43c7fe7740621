// Package gateway builds direct media links for external video pages via the
// cobalt proxy service.
package gateway

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrInvalidURL rejects source links that are not absolute http(s) URLs.
var ErrInvalidURL = errors.New("invalid source url")

// Resolution carries the proxied media endpoints for one source link.
type Resolution struct {
	VideoURL string `json:"video_url"`
	AudioURL string `json:"audio_url"`
}

// Client maps share links onto the proxy's fetch endpoints. The proxy itself
// does the site-specific extraction; resolution here is pure URL construction
// and never performs network I/O.
type Client struct {
	baseURL string
}

func New(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

// Resolve returns proxy endpoints for the page's video stream and its
// audio-only variant.
func (c *Client) Resolve(sourceURL string) (*Resolution, error) {
	u, err := url.Parse(sourceURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, sourceURL)
	}

	escaped := url.QueryEscape(sourceURL)
	return &Resolution{
		VideoURL: fmt.Sprintf("%s/api/proxy?url=%s", c.baseURL, escaped),
		AudioURL: fmt.Sprintf("%s/api/proxy?url=%s&isAudioOnly=true", c.baseURL, escaped),
	}, nil
}
