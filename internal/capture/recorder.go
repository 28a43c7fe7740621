// Package capture records composited frames into a downloadable WebM file.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
)

// Recorder accepts composited frames in arrival order and finalizes a single
// output file on Stop.
type Recorder interface {
	Start(ctx context.Context) error
	WriteFrame(img *image.RGBA) error
	Stop() error
}

// FFmpegRecorder pipes raw RGBA frames into an ffmpeg process that encodes
// them as VP8 in a WebM container.
type FFmpegRecorder struct {
	ffmpegPath string
	width      int
	height     int
	fps        int
	outPath    string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
}

func NewFFmpegRecorder(ffmpegPath string, width, height, fps int, outPath string) *FFmpegRecorder {
	return &FFmpegRecorder{
		ffmpegPath: ffmpegPath,
		width:      width,
		height:     height,
		fps:        fps,
		outPath:    outPath,
	}
}

func (r *FFmpegRecorder) Start(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, r.ffmpegPath,
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", r.width, r.height),
		"-r", strconv.Itoa(r.fps),
		"-i", "pipe:0",
		"-c:v", "libvpx",
		"-b:v", "2M",
		"-f", "webm",
		r.outPath,
	)
	cmd.Stderr = &r.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open encoder pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start encoder: %w", err)
	}

	r.cmd = cmd
	r.stdin = stdin
	return nil
}

func (r *FFmpegRecorder) WriteFrame(img *image.RGBA) error {
	if r.stdin == nil {
		return fmt.Errorf("recorder not started")
	}
	b := img.Bounds()
	if b.Dx() != r.width || b.Dy() != r.height {
		return fmt.Errorf("frame is %dx%d, recorder expects %dx%d", b.Dx(), b.Dy(), r.width, r.height)
	}

	rowBytes := 4 * r.width
	if img.Stride == rowBytes {
		_, err := r.stdin.Write(img.Pix)
		return err
	}
	for y := 0; y < r.height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+rowBytes]
		if _, err := r.stdin.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Stop closes the frame pipe and waits for ffmpeg to finalize the container.
func (r *FFmpegRecorder) Stop() error {
	if r.stdin == nil {
		return nil
	}
	r.stdin.Close()
	if err := r.cmd.Wait(); err != nil {
		return fmt.Errorf("finalize recording: %w (%s)", err, tail(r.stderr.Bytes()))
	}
	return nil
}

func tail(b []byte) string {
	const n = 200
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(bytes.TrimSpace(b))
}
