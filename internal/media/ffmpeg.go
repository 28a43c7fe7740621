// Package media wraps the ffmpeg/ffprobe binaries for probing, still
// extraction, and frame decoding. All invocations are context-bounded so a
// wedged binary cannot stall the caller.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os/exec"
	"strconv"
)

type FFmpeg interface {
	Probe(ctx context.Context, filePath string) (*ProbeResult, error)
	ExtractStill(ctx context.Context, filePath string, offset float64, width, height, quality int) ([]byte, error)
	DecodeFrame(ctx context.Context, filePath string, offset float64) (image.Image, error)
}

type ProbeResult struct {
	Duration  float64
	Width     int
	Height    int
	Codec     string
	FrameRate float64
}

// Exec runs the real ffmpeg/ffprobe binaries.
type Exec struct {
	ffmpegPath  string
	ffprobePath string
	logger      *slog.Logger
}

func NewExec(ffmpegPath, ffprobePath string, logger *slog.Logger) *Exec {
	return &Exec{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath, logger: logger}
}

func (e *Exec) FFmpegPath() string {
	return e.ffmpegPath
}

func (e *Exec) Probe(ctx context.Context, filePath string) (*ProbeResult, error) {
	cmd := exec.CommandContext(ctx, e.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w (stderr: %s)", err, stderr.String())
	}

	return parseProbeOutput(stdout.Bytes())
}

// ExtractStill seeks to offset and returns a single scaled JPEG frame.
// quality follows ffmpeg's -q:v scale (2 best, 31 worst).
func (e *Exec) ExtractStill(ctx context.Context, filePath string, offset float64, width, height, quality int) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.ffmpegPath,
		"-ss", fmt.Sprintf("%.3f", offset),
		"-i", filePath,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:%d", width, height),
		"-q:v", strconv.Itoa(quality),
		"-f", "image2",
		"pipe:1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg still extraction at %.3fs failed: %w (stderr: %s)", offset, err, tail(stderr.String(), 512))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no frame at %.3fs", offset)
	}
	return stdout.Bytes(), nil
}

// DecodeFrame returns the frame at offset at the source's native resolution.
func (e *Exec) DecodeFrame(ctx context.Context, filePath string, offset float64) (image.Image, error) {
	cmd := exec.CommandContext(ctx, e.ffmpegPath,
		"-ss", fmt.Sprintf("%.3f", offset),
		"-i", filePath,
		"-frames:v", "1",
		"-c:v", "png",
		"-f", "image2",
		"pipe:1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame decode at %.3fs failed: %w (stderr: %s)", offset, err, tail(stderr.String(), 512))
	}

	img, _, err := image.Decode(bytes.NewReader(stdout.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("decode frame at %.3fs: %w", offset, err)
	}
	return img, nil
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

func parseProbeOutput(data []byte) (*ProbeResult, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal ffprobe output: %w", err)
	}

	result := &ProbeResult{}
	if out.Format.Duration != "" {
		d, err := strconv.ParseFloat(out.Format.Duration, 64)
		if err != nil {
			return nil, fmt.Errorf("parse duration %q: %w", out.Format.Duration, err)
		}
		result.Duration = d
	}

	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		result.Width = s.Width
		result.Height = s.Height
		result.Codec = s.CodecName
		result.FrameRate = parseFrameRate(s.AvgFrameRate)
		break
	}

	return result, nil
}

// parseFrameRate handles ffprobe's fractional notation ("30000/1001").
func parseFrameRate(s string) float64 {
	var num, den float64
	if n, _ := fmt.Sscanf(s, "%g/%g", &num, &den); n == 2 && den != 0 {
		return num / den
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return 0
}

func tail(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[len(s)-maxLen:]
}
