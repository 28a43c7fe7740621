package ai

import (
	"context"
	"log/slog"

	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/sampler"
)

// StubClient serves development without an API key: canned clips and
// captions, no image editing.
type StubClient struct {
	logger *slog.Logger
}

func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger}
}

func (c *StubClient) AnalyzeFrames(ctx context.Context, stills []sampler.Still, sourceDuration float64) ([]clip.VideoClip, error) {
	if c.logger != nil {
		c.logger.Info("ai stub: analysis requested", "stills", len(stills), "duration", sourceDuration)
	}

	// Two fixed windows scaled to the source, mirroring a typical answer.
	raw := []rawClip{
		{StartTime: sourceDuration * 0.1, EndTime: sourceDuration * 0.3, Description: "Opening moment", Score: 72},
		{StartTime: sourceDuration * 0.6, EndTime: sourceDuration * 0.85, Description: "Key highlight", Score: 88},
	}
	return toClips(raw, sourceDuration), nil
}

func (c *StubClient) GenerateCaptions(ctx context.Context, vc *clip.VideoClip) (clip.CaptionTrack, error) {
	if c.logger != nil {
		c.logger.Info("ai stub: captions requested", "clip_id", vc.ID)
	}

	words := []rawWord{
		{Word: "watch", Start: 0, End: 0.4},
		{Word: "this", Start: 0.4, End: 0.8},
		{Word: "moment", Start: 0.8, End: 1.4},
	}
	return toTrack(words, vc.Duration), nil
}

func (c *StubClient) EditImage(ctx context.Context, png []byte, prompt string) ([]byte, error) {
	if c.logger != nil {
		c.logger.Info("ai stub: image edit requested", "prompt", prompt)
	}
	return nil, ErrNoResult
}
