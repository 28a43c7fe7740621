// Package sampler extracts a small set of representative still frames from an
// uploaded video for segment analysis.
package sampler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/clipforge/clipforge-agent/internal/media"
)

// ErrExtractionFailed signals that no usable stills could be produced, for
// example from an unreadable or zero-duration source.
var ErrExtractionFailed = errors.New("frame extraction failed")

const (
	// FrameCount stills are spread evenly across the video, inclusive of
	// position 0 and exclusive of the final instant.
	FrameCount = 8

	// Stills are downsized for analysis, roughly JPEG quality 0.6.
	StillWidth   = 320
	StillHeight  = 180
	StillQuality = 7
)

// Still is one extracted frame with its source offset.
type Still struct {
	Offset float64
	JPEG   []byte
}

type Sampler struct {
	ffmpeg  media.FFmpeg
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a sampler. timeout bounds the wait for each individual still so
// a stuck seek can never hang the analysis flow.
func New(ffmpeg media.FFmpeg, timeout time.Duration, logger *slog.Logger) *Sampler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sampler{ffmpeg: ffmpeg, timeout: timeout, logger: logger}
}

// Extract produces up to FrameCount stills at offsets duration*i/FrameCount.
// A single failed still is skipped, not retried; the pass is best-effort. It
// returns ErrExtractionFailed when the duration is unusable or every still
// fails.
func (s *Sampler) Extract(ctx context.Context, filePath string, duration float64) ([]Still, error) {
	if duration <= 0 {
		return nil, ErrExtractionFailed
	}

	stills := make([]Still, 0, FrameCount)
	for i := 0; i < FrameCount; i++ {
		offset := duration * float64(i) / FrameCount

		stillCtx, cancel := context.WithTimeout(ctx, s.timeout)
		data, err := s.ffmpeg.ExtractStill(stillCtx, filePath, offset, StillWidth, StillHeight, StillQuality)
		cancel()

		if err != nil {
			if s.logger != nil {
				s.logger.Warn("skipping still", "offset", offset, "error", err)
			}
			if ctx.Err() != nil {
				break
			}
			continue
		}
		stills = append(stills, Still{Offset: offset, JPEG: data})
	}

	if len(stills) == 0 {
		return nil, ErrExtractionFailed
	}
	return stills, nil
}
