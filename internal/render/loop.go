package render

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/styles"
)

// TickInterval is the preview frame clock period, ~30fps.
const TickInterval = time.Second / 30

// FrameSource yields a decoded source frame at an absolute offset.
type FrameSource interface {
	FrameAt(ctx context.Context, offset float64) (image.Image, error)
}

// nextPlayhead advances the playhead by dt and wraps it to the exact clip
// start once the end is reached, so looping never accumulates drift.
func nextPlayhead(playhead, dt, start, end float64) float64 {
	if playhead+dt >= end {
		return start
	}
	return playhead + dt
}

// Loop is the preview frame clock for one selected clip. Each tick composites
// the frame at the current playhead, publishes it, then advances. A frame
// fetch failure skips the tick; the clock keeps running.
type Loop struct {
	comp   *Compositor
	source FrameSource
	clip   *clip.VideoClip
	style  *styles.Style
	logger *slog.Logger

	mu       sync.Mutex
	playhead float64
	latest   *image.RGBA

	started  bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewLoop(comp *Compositor, source FrameSource, vc *clip.VideoClip, style *styles.Style, logger *slog.Logger) *Loop {
	return &Loop{
		comp:     comp,
		source:   source,
		clip:     vc,
		style:    style,
		logger:   logger,
		playhead: vc.StartTimeSeconds,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (l *Loop) Start() {
	l.started = true
	go l.run()
}

// Stop halts the clock and waits for the running tick to finish, so no frame
// is published after it returns. Safe to call more than once.
func (l *Loop) Stop() {
	if !l.started {
		return
	}
	l.stopOnce.Do(func() { close(l.stopCh) })
	<-l.doneCh
}

// Playhead reports the current position in absolute source seconds.
func (l *Loop) Playhead() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.playhead
}

// Latest returns the most recently composited frame, or nil before the first
// successful tick.
func (l *Loop) Latest() *image.RGBA {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latest
}

func (l *Loop) run() {
	defer close(l.doneCh)

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.tick(TickInterval.Seconds())
		}
	}
}

func (l *Loop) tick(dt float64) {
	l.mu.Lock()
	playhead := l.playhead
	l.mu.Unlock()

	frame, err := l.source.FrameAt(context.Background(), playhead)
	if err != nil || frame == nil {
		if err != nil && l.logger != nil {
			l.logger.Warn("skipping preview tick", "playhead", playhead, "error", err)
		}
	} else if img := l.comp.Composite(frame, l.clip, l.style, playhead); img != nil {
		l.mu.Lock()
		l.latest = img
		l.mu.Unlock()
	}

	l.mu.Lock()
	l.playhead = nextPlayhead(playhead, dt, l.clip.StartTimeSeconds, l.clip.EndTimeSeconds)
	l.mu.Unlock()
}
