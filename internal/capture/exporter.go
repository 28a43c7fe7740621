package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/render"
	"github.com/clipforge/clipforge-agent/internal/styles"
)

var (
	// ErrExportUnavailable signals that the capture pipeline could not run,
	// typically a missing encoder or an unwritable exports directory.
	ErrExportUnavailable = errors.New("export unavailable")

	// ErrRecordingInProgress rejects a second export while one is running.
	ErrRecordingInProgress = errors.New("recording already in progress")
)

// FPS is the capture frame rate.
const FPS = 30

// RecorderFactory builds a recorder for one output file. Tests substitute a
// fake; production wires NewFFmpegRecorder.
type RecorderFactory func(outPath string) Recorder

// Result describes one finished export.
type Result struct {
	Filename string  `json:"filename"`
	Path     string  `json:"path"`
	Duration float64 `json:"duration"`
}

// Exporter runs the capture pipeline: it plays the selected clip once in real
// time at FPS, compositing and recording each frame, and stops exactly at the
// clip's duration. Only one recording may run at a time.
type Exporter struct {
	exportsDir  string
	newRecorder RecorderFactory
	logger      *slog.Logger
	recording   atomic.Bool
}

func NewExporter(exportsDir string, factory RecorderFactory, logger *slog.Logger) *Exporter {
	return &Exporter{exportsDir: exportsDir, newRecorder: factory, logger: logger}
}

func (e *Exporter) IsRecording() bool {
	return e.recording.Load()
}

// Export records vc styled with style, reading source frames from source.
// The recording runs for the clip's duration in wall-clock time and the stop
// timer fires exactly once; cancelling ctx abandons the recording and removes
// the partial file.
func (e *Exporter) Export(ctx context.Context, source render.FrameSource, vc *clip.VideoClip, style *styles.Style) (*Result, error) {
	if !e.recording.CompareAndSwap(false, true) {
		return nil, ErrRecordingInProgress
	}
	defer e.recording.Store(false)

	if vc == nil || vc.Duration <= 0 {
		return nil, ErrExportUnavailable
	}
	if err := os.MkdirAll(e.exportsDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportUnavailable, err)
	}

	filename := fmt.Sprintf("clipforge_%d.webm", time.Now().UnixMilli())
	outPath := filepath.Join(e.exportsDir, filename)

	rec := e.newRecorder(outPath)
	if err := rec.Start(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportUnavailable, err)
	}

	if e.logger != nil {
		e.logger.Info("recording started", "clip_id", vc.ID, "duration", vc.Duration, "file", filename)
	}

	comp := render.NewCompositor()
	stop := time.NewTimer(time.Duration(vc.Duration * float64(time.Second)))
	defer stop.Stop()
	ticker := time.NewTicker(time.Second / FPS)
	defer ticker.Stop()

	playhead := vc.StartTimeSeconds
	dt := (time.Second / FPS).Seconds()

capture:
	for {
		select {
		case <-ctx.Done():
			rec.Stop()
			os.Remove(outPath)
			return nil, ctx.Err()
		case <-stop.C:
			break capture
		case <-ticker.C:
			frame, err := source.FrameAt(ctx, playhead)
			if err != nil || frame == nil {
				if err != nil && e.logger != nil {
					e.logger.Warn("dropping export frame", "playhead", playhead, "error", err)
				}
			} else if img := comp.Composite(frame, vc, style, playhead); img != nil {
				if err := rec.WriteFrame(img); err != nil {
					rec.Stop()
					os.Remove(outPath)
					return nil, fmt.Errorf("%w: %v", ErrExportUnavailable, err)
				}
			}
			playhead += dt
		}
	}

	if err := rec.Stop(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportUnavailable, err)
	}

	if e.logger != nil {
		e.logger.Info("recording finished", "file", filename)
	}
	return &Result{Filename: filename, Path: outPath, Duration: vc.Duration}, nil
}
