package media

import (
	"context"
	"image"
	"time"
)

// VideoSource exposes a single video file as a seekable frame source for the
// render loop and export pipeline.
type VideoSource struct {
	ffmpeg  FFmpeg
	path    string
	timeout time.Duration
}

func NewVideoSource(ffmpeg FFmpeg, path string, timeout time.Duration) *VideoSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &VideoSource{ffmpeg: ffmpeg, path: path, timeout: timeout}
}

func (v *VideoSource) FrameAt(ctx context.Context, offset float64) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	return v.ffmpeg.DecodeFrame(ctx, v.path, offset)
}
