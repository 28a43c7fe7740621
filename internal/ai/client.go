// Package ai talks to the hosted model collaborators: segment analysis over
// sampled stills, caption word-timing generation, and screenshot text edits.
package ai

import (
	"context"
	"errors"

	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/sampler"
)

var (
	// ErrAnalysisUnavailable signals the analysis collaborator could not be
	// reached or refused the request.
	ErrAnalysisUnavailable = errors.New("segment analysis unavailable")

	// ErrCaptionUnavailable signals the caption collaborator failed; the
	// clip stays usable without captions.
	ErrCaptionUnavailable = errors.New("caption generation unavailable")

	// ErrNoResult signals the collaborator answered but produced nothing
	// usable, such as an empty image edit.
	ErrNoResult = errors.New("no result returned")
)

// Client is the collaborator surface the studio depends on. Production wires
// OpenAIClient; a StubClient serves development without an API key.
type Client interface {
	// AnalyzeFrames proposes candidate clips from sampled stills. A
	// malformed but successful response yields an empty slice, not an
	// error.
	AnalyzeFrames(ctx context.Context, stills []sampler.Still, sourceDuration float64) ([]clip.VideoClip, error)

	// GenerateCaptions produces a word-timing track for one clip, with
	// times relative to the clip start.
	GenerateCaptions(ctx context.Context, vc *clip.VideoClip) (clip.CaptionTrack, error)

	// EditImage applies a text instruction to a PNG screenshot and returns
	// the edited PNG.
	EditImage(ctx context.Context, png []byte, prompt string) ([]byte, error)
}
