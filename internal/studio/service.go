// Package studio orchestrates the preview session: source intake, segment
// analysis, clip selection, the live render loop, and export.
package studio

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/clipforge/clipforge-agent/internal/ai"
	"github.com/clipforge/clipforge-agent/internal/capture"
	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/media"
	"github.com/clipforge/clipforge-agent/internal/render"
	"github.com/clipforge/clipforge-agent/internal/sampler"
	"github.com/clipforge/clipforge-agent/internal/styles"
)

var (
	ErrNoSource      = errors.New("no source video loaded")
	ErrClipNotFound  = errors.New("clip not found")
	ErrNoSelection   = errors.New("no clip selected")
	ErrStyleNotFound = errors.New("style not found")

	// ErrFrameNotReady is returned before the render loop has published its
	// first frame.
	ErrFrameNotReady = errors.New("no preview frame ready yet")
)

// Service owns the single preview session and coordinates every component
// under it. All public methods are safe for concurrent use.
type Service struct {
	session      *clip.Session
	sampler      *sampler.Sampler
	ai           ai.Client
	styleRepo    styles.Repository
	exporter     *capture.Exporter
	ffmpeg       media.FFmpeg
	frameTimeout time.Duration
	aiTimeout    time.Duration
	logger       *slog.Logger

	mu     sync.Mutex
	loop   *render.Loop
	frames render.FrameSource
}

func New(session *clip.Session, smp *sampler.Sampler, aiClient ai.Client, styleRepo styles.Repository, exporter *capture.Exporter, ffmpeg media.FFmpeg, frameTimeout, aiTimeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		session:      session,
		sampler:      smp,
		ai:           aiClient,
		styleRepo:    styleRepo,
		exporter:     exporter,
		ffmpeg:       ffmpeg,
		frameTimeout: frameTimeout,
		aiTimeout:    aiTimeout,
		logger:       logger,
	}
}

// SetSource probes the uploaded file and installs it as the session source,
// destroying all clip state derived from the previous one.
func (s *Service) SetSource(ctx context.Context, path, filename string) (*clip.SourceVideo, error) {
	probe, err := s.ffmpeg.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("probe source: %w", err)
	}

	src := &clip.SourceVideo{
		Path:       path,
		Filename:   filename,
		Duration:   probe.Duration,
		Width:      probe.Width,
		Height:     probe.Height,
		UploadedAt: time.Now(),
	}

	s.stopLoop()
	s.mu.Lock()
	s.frames = media.NewVideoSource(s.ffmpeg, path, s.frameTimeout)
	s.mu.Unlock()
	s.session.SetSource(src)

	s.logger.Info("source loaded", "file", filename, "duration", src.Duration,
		"dimensions", fmt.Sprintf("%dx%d", src.Width, src.Height))
	return src, nil
}

// Analyze samples stills from the source and asks the analysis collaborator
// for candidate clips. A collaborator failure leaves the session usable with
// an empty candidate list; a sampling failure is an error.
func (s *Service) Analyze(ctx context.Context) ([]*clip.VideoClip, error) {
	src := s.session.Source()
	if src == nil {
		return nil, ErrNoSource
	}

	s.stopLoop()
	s.session.SetState(clip.StateAnalyzing)

	stills, err := s.sampler.Extract(ctx, src.Path, src.Duration)
	if err != nil {
		s.session.SetLastError(err.Error())
		s.session.SetState(clip.StateIdle)
		return nil, err
	}

	aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	proposed, err := s.ai.AnalyzeFrames(aiCtx, stills, src.Duration)
	cancel()
	if err != nil {
		s.logger.Warn("analysis collaborator failed", "error", err)
		s.session.SetLastError(err.Error())
		proposed = nil
	}

	clips := make([]*clip.VideoClip, len(proposed))
	for i := range proposed {
		clips[i] = &proposed[i]
	}
	s.session.SetClips(clips)
	s.session.SetState(clip.StateIdle)

	s.logger.Info("analysis finished", "candidates", len(clips))
	return clips, nil
}

// SelectClip picks a candidate, generates its caption track with a single
// collaborator call, and starts the preview loop. Caption failure or an
// invalid track degrades to a caption-less preview.
func (s *Service) SelectClip(ctx context.Context, id string) (*clip.VideoClip, error) {
	if s.session.Source() == nil {
		return nil, ErrNoSource
	}
	vc := s.session.Clip(id)
	if vc == nil {
		return nil, ErrClipNotFound
	}

	// Caption fetch happens before the loop starts; the session already
	// reports the rendering state while it is pending.
	s.stopLoop()
	s.session.SetState(clip.StateRendering)

	aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	track, err := s.ai.GenerateCaptions(aiCtx, vc)
	cancel()
	if err != nil {
		s.logger.Warn("caption collaborator failed", "clip_id", id, "error", err)
		s.session.SetLastError(err.Error())
		track = nil
	}
	if track != nil {
		if err := track.Validate(vc.Duration); err != nil {
			s.logger.Warn("discarding invalid caption track", "clip_id", id, "error", err)
			track = nil
		}
	}

	s.session.AttachCaptions(id, track)
	vc = s.session.Select(id)
	if vc == nil {
		return nil, ErrClipNotFound
	}
	s.startLoop(ctx, vc)

	s.logger.Info("clip selected", "clip_id", id, "captions", len(track))
	return vc, nil
}

// ActivateStyle switches the caption style and restyles a running preview in
// place.
func (s *Service) ActivateStyle(ctx context.Context, id string) (*styles.Style, error) {
	st, err := s.styleRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrStyleNotFound
	}

	s.session.SetStyleID(id)
	if sel := s.session.Selected(); sel != nil {
		s.startLoop(ctx, sel)
	}
	return st, nil
}

// Styles lists the catalog.
func (s *Service) Styles(ctx context.Context) ([]*styles.Style, error) {
	return s.styleRepo.List(ctx)
}

// Clips returns the current candidate list.
func (s *Service) Clips() []*clip.VideoClip {
	return s.session.Clips()
}

// PreviewFrame returns the most recent composited preview frame.
func (s *Service) PreviewFrame() (*image.RGBA, error) {
	s.mu.Lock()
	l := s.loop
	s.mu.Unlock()
	if l == nil {
		return nil, ErrNoSelection
	}
	img := l.Latest()
	if img == nil {
		return nil, ErrFrameNotReady
	}
	return img, nil
}

// Export pauses the preview loop, records the selected clip once in real
// time, then resumes the preview.
func (s *Service) Export(ctx context.Context) (*capture.Result, error) {
	vc := s.session.Selected()
	if vc == nil {
		return nil, ErrNoSelection
	}

	s.mu.Lock()
	frames := s.frames
	s.mu.Unlock()
	if frames == nil {
		return nil, ErrNoSource
	}

	st, err := s.styleRepo.Get(ctx, s.session.StyleID())
	if err != nil {
		return nil, err
	}

	s.stopLoop()
	s.session.SetState(clip.StateRecording)

	res, exportErr := s.exporter.Export(ctx, frames, vc, st)

	s.startLoop(ctx, vc)
	s.session.SetState(clip.StateRendering)

	if exportErr != nil {
		s.session.SetLastError(exportErr.Error())
		return nil, exportErr
	}
	return res, nil
}

// EditScreenshot routes a canvas screenshot and instruction to the image
// collaborator.
func (s *Service) EditScreenshot(ctx context.Context, png []byte, prompt string) ([]byte, error) {
	aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()
	return s.ai.EditImage(aiCtx, png, prompt)
}

// Status is the UI-facing session snapshot.
type Status struct {
	State          string            `json:"state"`
	Source         *clip.SourceVideo `json:"source,omitempty"`
	ClipCount      int               `json:"clip_count"`
	SelectedClipID string            `json:"selected_clip_id,omitempty"`
	StyleID        string            `json:"style_id"`
	Playhead       float64           `json:"playhead"`
	Recording      bool              `json:"recording"`
	LastError      string            `json:"last_error,omitempty"`
}

func (s *Service) Status() Status {
	st := Status{
		State:     s.session.State(),
		Source:    s.session.Source(),
		ClipCount: len(s.session.Clips()),
		StyleID:   s.session.StyleID(),
		Recording: s.exporter.IsRecording(),
		LastError: s.session.LastError(),
	}
	if sel := s.session.Selected(); sel != nil {
		st.SelectedClipID = sel.ID
	}
	s.mu.Lock()
	if s.loop != nil {
		st.Playhead = s.loop.Playhead()
	}
	s.mu.Unlock()
	return st
}

// Close stops the preview loop. Called on shutdown.
func (s *Service) Close() {
	s.stopLoop()
}

func (s *Service) startLoop(ctx context.Context, vc *clip.VideoClip) {
	st, err := s.styleRepo.Get(ctx, s.session.StyleID())
	if err != nil || st == nil {
		// Preview keeps running without captions on a broken catalog row.
		s.logger.Warn("active style unavailable", "style_id", s.session.StyleID(), "error", err)
		st = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loop != nil {
		s.loop.Stop()
		s.loop = nil
	}
	if s.frames == nil {
		return
	}
	l := render.NewLoop(render.NewCompositor(), s.frames, vc, st, s.logger)
	l.Start()
	s.loop = l
}

func (s *Service) stopLoop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loop != nil {
		s.loop.Stop()
		s.loop = nil
	}
}
