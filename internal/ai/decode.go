package ai

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/clipforge/clipforge-agent/internal/clip"
)

type rawClip struct {
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

type rawWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// stripFences removes a markdown code fence the model sometimes wraps its
// JSON in despite the response-format hint.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// decodeClips accepts either {"clips":[...]} or a bare array. Malformed JSON
// decodes to an empty list: an unusable answer is not a transport failure.
func decodeClips(content string, logger *slog.Logger) []rawClip {
	content = stripFences(content)

	var wrapped struct {
		Clips []rawClip `json:"clips"`
	}
	if err := json.Unmarshal([]byte(content), &wrapped); err == nil && wrapped.Clips != nil {
		return wrapped.Clips
	}

	var bare []rawClip
	if err := json.Unmarshal([]byte(content), &bare); err == nil {
		return bare
	}

	if logger != nil {
		logger.Warn("discarding malformed analysis response")
	}
	return nil
}

// decodeWords accepts either {"words":[...]} or a bare array, tolerating
// malformed payloads the same way decodeClips does.
func decodeWords(content string, logger *slog.Logger) []rawWord {
	content = stripFences(content)

	var wrapped struct {
		Words []rawWord `json:"words"`
	}
	if err := json.Unmarshal([]byte(content), &wrapped); err == nil && wrapped.Words != nil {
		return wrapped.Words
	}

	var bare []rawWord
	if err := json.Unmarshal([]byte(content), &bare); err == nil {
		return bare
	}

	if logger != nil {
		logger.Warn("discarding malformed caption response")
	}
	return nil
}

// toClips converts raw model output into validated clips, dropping any
// segment that does not fit inside the source.
func toClips(raw []rawClip, sourceDuration float64) []clip.VideoClip {
	clips := make([]clip.VideoClip, 0, len(raw))
	for _, rc := range raw {
		vc := clip.VideoClip{
			ID:               clip.NewID(),
			StartTimeSeconds: rc.StartTime,
			EndTimeSeconds:   rc.EndTime,
			Description:      rc.Description,
			Score:            rc.Score,
		}
		vc.RecomputeDuration()
		if err := vc.Validate(sourceDuration); err != nil {
			continue
		}
		clips = append(clips, vc)
	}
	return clips
}

// toTrack converts raw words into a caption track, dropping words that fall
// outside the clip.
func toTrack(raw []rawWord, clipDuration float64) clip.CaptionTrack {
	track := make(clip.CaptionTrack, 0, len(raw))
	for _, rw := range raw {
		w := clip.TimedWord{Word: rw.Word, Start: rw.Start, End: rw.End}
		if err := (clip.CaptionTrack{w}).Validate(clipDuration); err != nil {
			continue
		}
		track = append(track, w)
	}
	return track
}
