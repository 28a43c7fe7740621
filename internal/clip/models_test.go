package clip

import (
	"testing"
)

func TestWordAt_FirstInOrderWins(t *testing.T) {
	track := CaptionTrack{
		{Word: "first", Start: 1.0, End: 3.0},
		{Word: "second", Start: 2.0, End: 4.0},
		{Word: "third", Start: 2.5, End: 2.8},
	}

	// All three ranges contain 2.6; the earliest-ordered word must win,
	// and repeated queries at the same instant must agree.
	for i := 0; i < 5; i++ {
		w, ok := track.WordAt(2.6)
		if !ok {
			t.Fatal("WordAt(2.6) found no word")
		}
		if w.Word != "first" {
			t.Fatalf("WordAt(2.6) = %q, want %q", w.Word, "first")
		}
	}
}

func TestWordAt_InclusiveBounds(t *testing.T) {
	track := CaptionTrack{{Word: "only", Start: 1.0, End: 2.0}}

	tests := []struct {
		t    float64
		want bool
	}{
		{0.99, false},
		{1.0, true},
		{1.5, true},
		{2.0, true},
		{2.01, false},
	}
	for _, tt := range tests {
		if _, ok := track.WordAt(tt.t); ok != tt.want {
			t.Errorf("WordAt(%g) found = %v, want %v", tt.t, ok, tt.want)
		}
	}
}

func TestWordAt_GapReturnsNothing(t *testing.T) {
	track := CaptionTrack{
		{Word: "a", Start: 0.0, End: 0.5},
		{Word: "b", Start: 1.0, End: 1.5},
	}
	if w, ok := track.WordAt(0.7); ok {
		t.Errorf("WordAt(0.7) = %q, want no match", w.Word)
	}
}

func TestCaptionTrack_Validate(t *testing.T) {
	tests := []struct {
		name     string
		track    CaptionTrack
		duration float64
		wantErr  bool
	}{
		{"valid", CaptionTrack{{Word: "hi", Start: 0, End: 1}}, 10, false},
		{"end beyond duration", CaptionTrack{{Word: "hi", Start: 9, End: 11}}, 10, true},
		{"negative start", CaptionTrack{{Word: "hi", Start: -0.1, End: 1}}, 10, true},
		{"zero length", CaptionTrack{{Word: "hi", Start: 1, End: 1}}, 10, true},
		{"empty", CaptionTrack{}, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.track.Validate(tt.duration)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVideoClip_Validate(t *testing.T) {
	tests := []struct {
		name    string
		clip    VideoClip
		source  float64
		wantErr bool
	}{
		{"valid", VideoClip{StartTimeSeconds: 5, EndTimeSeconds: 15}, 40, false},
		{"negative start", VideoClip{StartTimeSeconds: -1, EndTimeSeconds: 5}, 40, true},
		{"start equals end", VideoClip{StartTimeSeconds: 5, EndTimeSeconds: 5}, 40, true},
		{"end beyond source", VideoClip{StartTimeSeconds: 5, EndTimeSeconds: 45}, 40, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.clip.Validate(tt.source)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVideoClip_ValidateClampsScore(t *testing.T) {
	c := VideoClip{StartTimeSeconds: 0, EndTimeSeconds: 10, Score: 150}
	if err := c.Validate(40); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if c.Score != 100 {
		t.Errorf("Score = %g, want clamped to 100", c.Score)
	}

	c = VideoClip{StartTimeSeconds: 0, EndTimeSeconds: 10, Score: -5}
	if err := c.Validate(40); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if c.Score != 0 {
		t.Errorf("Score = %g, want clamped to 0", c.Score)
	}
}

func TestVideoClip_RecomputeDuration(t *testing.T) {
	c := VideoClip{StartTimeSeconds: 5, EndTimeSeconds: 15}
	c.RecomputeDuration()
	if c.Duration != 10 {
		t.Errorf("Duration = %g, want 10", c.Duration)
	}
}

func TestNewID_Unique(t *testing.T) {
	a, b := NewID(), NewID()
	if a == "" || a == b {
		t.Errorf("NewID() produced %q and %q, want distinct non-empty IDs", a, b)
	}
}
