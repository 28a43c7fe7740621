package ai

import (
	"context"
	"testing"

	"github.com/clipforge/clipforge-agent/internal/clip"
)

func TestDecodeClips(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"wrapped object", `{"clips": [{"start_time": 1, "end_time": 5, "description": "d", "score": 50}]}`, 1},
		{"bare array", `[{"start_time": 1, "end_time": 5}]`, 1},
		{"fenced json", "```json\n{\"clips\": [{\"start_time\": 1, \"end_time\": 5}]}\n```", 1},
		{"empty list", `{"clips": []}`, 0},
		{"malformed", `the video shows a cat`, 0},
		{"wrong shape", `{"segments": 3}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeClips(tt.content, nil); len(got) != tt.want {
				t.Errorf("decodeClips() = %d clips, want %d", len(got), tt.want)
			}
		})
	}
}

func TestDecodeWords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"wrapped object", `{"words": [{"word": "hi", "start": 0, "end": 0.5}]}`, 1},
		{"bare array", `[{"word": "hi", "start": 0, "end": 0.5}, {"word": "there", "start": 0.5, "end": 1}]`, 2},
		{"malformed", `no captions today`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeWords(tt.content, nil); len(got) != tt.want {
				t.Errorf("decodeWords() = %d words, want %d", len(got), tt.want)
			}
		})
	}
}

func TestToClips_DropsInvalidSegments(t *testing.T) {
	raw := []rawClip{
		{StartTime: 1, EndTime: 5, Score: 40},
		{StartTime: -1, EndTime: 5},          // negative start
		{StartTime: 8, EndTime: 6},           // inverted
		{StartTime: 2, EndTime: 50},          // past source end
		{StartTime: 6, EndTime: 9, Score: 150}, // score clamps, still valid
	}

	clips := toClips(raw, 10)
	if len(clips) != 2 {
		t.Fatalf("toClips() = %d clips, want 2", len(clips))
	}
	for _, c := range clips {
		if c.ID == "" {
			t.Error("clip missing generated ID")
		}
		if c.Duration != c.EndTimeSeconds-c.StartTimeSeconds {
			t.Errorf("clip %s duration %g inconsistent with bounds", c.ID, c.Duration)
		}
	}
	if clips[1].Score != 100 {
		t.Errorf("score = %g, want clamped to 100", clips[1].Score)
	}
}

func TestToTrack_DropsOutOfRangeWords(t *testing.T) {
	raw := []rawWord{
		{Word: "ok", Start: 0, End: 0.5},
		{Word: "late", Start: 4.5, End: 6}, // past clip end
		{Word: "bad", Start: 1, End: 1},    // zero length
	}

	track := toTrack(raw, 5)
	if len(track) != 1 || track[0].Word != "ok" {
		t.Fatalf("toTrack() = %v, want just the in-range word", track)
	}
}

func TestStubClient(t *testing.T) {
	stub := NewStubClient(nil)

	clips, err := stub.AnalyzeFrames(context.Background(), nil, 60)
	if err != nil {
		t.Fatalf("AnalyzeFrames() error = %v", err)
	}
	if len(clips) == 0 {
		t.Fatal("stub returned no clips")
	}
	for _, c := range clips {
		if err := c.Validate(60); err != nil {
			t.Errorf("stub clip invalid: %v", err)
		}
	}

	track, err := stub.GenerateCaptions(context.Background(), &clip.VideoClip{ID: "c1", Duration: 5})
	if err != nil {
		t.Fatalf("GenerateCaptions() error = %v", err)
	}
	if err := track.Validate(5); err != nil {
		t.Errorf("stub track invalid: %v", err)
	}

	if _, err := stub.EditImage(context.Background(), nil, "brighten"); err != ErrNoResult {
		t.Errorf("EditImage() error = %v, want ErrNoResult", err)
	}
}
