package clip

import (
	"testing"
	"time"
)

func TestSession_SetSourceResetsClipState(t *testing.T) {
	s := NewSession("impact")
	s.SetClips([]*VideoClip{{ID: "c1", StartTimeSeconds: 0, EndTimeSeconds: 5}})
	s.Select("c1")
	s.SetLastError("boom")

	s.SetSource(&SourceVideo{Filename: "new.mp4", Duration: 30, UploadedAt: time.Now()})

	if len(s.Clips()) != 0 {
		t.Error("clips survived a source change")
	}
	if s.Selected() != nil {
		t.Error("selection survived a source change")
	}
	if s.LastError() != "" {
		t.Error("last error survived a source change")
	}
	if s.State() != StateIdle {
		t.Errorf("state = %q, want %q", s.State(), StateIdle)
	}
}

func TestSession_SetClipsDropsSelection(t *testing.T) {
	s := NewSession("impact")
	s.SetClips([]*VideoClip{{ID: "c1", StartTimeSeconds: 0, EndTimeSeconds: 5}})
	s.Select("c1")

	s.SetClips([]*VideoClip{{ID: "c2", StartTimeSeconds: 1, EndTimeSeconds: 6}})

	if s.Selected() != nil {
		t.Error("selection survived a clip list replacement")
	}
	if s.Clip("c1") != nil {
		t.Error("old clip still resolvable after replacement")
	}
	if s.Clip("c2") == nil {
		t.Error("new clip not resolvable")
	}
}

func TestSession_ReadersGetCopies(t *testing.T) {
	s := NewSession("impact")
	s.SetClips([]*VideoClip{{ID: "c1", StartTimeSeconds: 0, EndTimeSeconds: 5}})

	got := s.Clips()[0]
	got.Description = "scribbled on"
	got.Captions = CaptionTrack{{Word: "x", Start: 0, End: 1}}

	if c := s.Clip("c1"); c.Description != "" || c.Captions != nil {
		t.Errorf("session clip mutated through a reader copy: %+v", c)
	}

	if !s.AttachCaptions("c1", CaptionTrack{{Word: "go", Start: 0, End: 1}}) {
		t.Fatal("AttachCaptions() = false for an existing clip")
	}
	if s.AttachCaptions("nope", nil) {
		t.Error("AttachCaptions() = true for an unknown clip")
	}
	if len(s.Clip("c1").Captions) != 1 {
		t.Error("attached track not visible to readers")
	}

	sel := s.Select("c1")
	if sel == nil || len(sel.Captions) != 1 {
		t.Fatalf("Select() = %+v, want the captioned clip", sel)
	}
	sel.Captions[0].Word = "overwritten"
	if s.Selected().Captions[0].Word != "go" {
		t.Error("session captions mutated through a Select copy")
	}
}

func TestSession_StyleAndState(t *testing.T) {
	s := NewSession("impact")
	if s.StyleID() != "impact" {
		t.Errorf("StyleID = %q, want %q", s.StyleID(), "impact")
	}

	s.SetStyleID("neon")
	if s.StyleID() != "neon" {
		t.Errorf("StyleID = %q, want %q", s.StyleID(), "neon")
	}

	s.SetState(StateRecording)
	if s.State() != StateRecording {
		t.Errorf("State = %q, want %q", s.State(), StateRecording)
	}
}
