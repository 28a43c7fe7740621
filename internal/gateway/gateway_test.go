package gateway

import (
	"errors"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	c := New("https://cobalt.tools")

	res, err := c.Resolve("https://example.com/watch?v=abc&t=10")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	wantVideo := "https://cobalt.tools/api/proxy?url=https%3A%2F%2Fexample.com%2Fwatch%3Fv%3Dabc%26t%3D10"
	if res.VideoURL != wantVideo {
		t.Errorf("VideoURL = %q, want %q", res.VideoURL, wantVideo)
	}
	if res.AudioURL != wantVideo+"&isAudioOnly=true" {
		t.Errorf("AudioURL = %q, want video URL plus audio-only flag", res.AudioURL)
	}
	if !strings.HasPrefix(res.AudioURL, res.VideoURL) {
		t.Error("audio URL must extend the video URL")
	}
}

func TestResolve_InvalidURLs(t *testing.T) {
	c := New("https://cobalt.tools")

	for _, in := range []string{"", "not a url", "ftp://example.com/file", "/relative/path", "example.com/missing-scheme"} {
		if _, err := c.Resolve(in); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidURL", in, err)
		}
	}
}
