// Package clip defines the in-memory model for highlight segments and their
// word-level caption tracks, plus the single-owner session state that holds
// them. Nothing in this package is persisted.
package clip

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimedWord is one caption unit. Start and End are seconds relative to the
// owning clip's start, not the source video.
type TimedWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// CaptionTrack is an ordered sequence of timed words, ordered by Start
// ascending. Entries may be non-contiguous or overlapping.
type CaptionTrack []TimedWord

// WordAt returns the first word in track order whose range contains t,
// inclusive on both bounds. When ranges overlap at t, the earliest-ordered
// word always wins.
func (tr CaptionTrack) WordAt(t float64) (TimedWord, bool) {
	for _, w := range tr {
		if t >= w.Start && t <= w.End {
			return w, true
		}
	}
	return TimedWord{}, false
}

// Validate checks that every word's bounds lie within [0, duration] and that
// each word has a positive-length range.
func (tr CaptionTrack) Validate(duration float64) error {
	for i, w := range tr {
		if w.Start < 0 || w.End > duration {
			return fmt.Errorf("word %d (%q): bounds [%g, %g] outside [0, %g]", i, w.Word, w.Start, w.End, duration)
		}
		if w.Start >= w.End {
			return fmt.Errorf("word %d (%q): start %g must be less than end %g", i, w.Word, w.Start, w.End)
		}
	}
	return nil
}

// VideoClip is a candidate or selected highlight segment of the source video.
// Captions is nil until caption generation succeeds for a selected clip.
type VideoClip struct {
	ID               string       `json:"id"`
	StartTimeSeconds float64      `json:"start_time_seconds"`
	EndTimeSeconds   float64      `json:"end_time_seconds"`
	Duration         float64      `json:"duration"`
	Description      string       `json:"description"`
	Score            float64      `json:"score"`
	Captions         CaptionTrack `json:"captions,omitempty"`
}

// RecomputeDuration keeps Duration consistent with the time bounds.
func (c *VideoClip) RecomputeDuration() {
	c.Duration = c.EndTimeSeconds - c.StartTimeSeconds
}

// Clone returns a copy that shares no mutable state with the receiver.
func (c *VideoClip) Clone() *VideoClip {
	out := *c
	if c.Captions != nil {
		out.Captions = make(CaptionTrack, len(c.Captions))
		copy(out.Captions, c.Captions)
	}
	return &out
}

// Validate checks the clip's time bounds against the source duration and
// clamps the advisory score into [0, 100].
func (c *VideoClip) Validate(sourceDuration float64) error {
	if c.StartTimeSeconds < 0 {
		return fmt.Errorf("start %g must not be negative", c.StartTimeSeconds)
	}
	if c.StartTimeSeconds >= c.EndTimeSeconds {
		return fmt.Errorf("start %g must be less than end %g", c.StartTimeSeconds, c.EndTimeSeconds)
	}
	if c.EndTimeSeconds > sourceDuration {
		return fmt.Errorf("end %g exceeds source duration %g", c.EndTimeSeconds, sourceDuration)
	}
	if c.Score < 0 {
		c.Score = 0
	}
	if c.Score > 100 {
		c.Score = 100
	}
	return nil
}

// SourceVideo describes the uploaded source the session operates on.
type SourceVideo struct {
	Path       string    `json:"-"`
	Filename   string    `json:"filename"`
	Duration   float64   `json:"duration"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func NewID() string {
	return uuid.NewString()
}
