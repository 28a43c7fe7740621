package clip

import (
	"sync"
)

// Session state names reported to the UI.
const (
	StateIdle      = "idle"
	StateAnalyzing = "analyzing"
	StateRendering = "rendering"
	StateRecording = "recording"
)

// Session is the single owner of the preview session's mutable state: the
// uploaded source, candidate clips, the selected clip, and the active caption
// style. All mutation goes through methods, and readers receive clip copies,
// never pointers into session state. Uploading a new source resets everything
// below it.
type Session struct {
	mu        sync.Mutex
	source    *SourceVideo
	clips     []*VideoClip
	selected  *VideoClip
	styleID   string
	state     string
	lastError string
}

func NewSession(defaultStyleID string) *Session {
	return &Session{styleID: defaultStyleID, state: StateIdle}
}

// SetSource installs a new source video and destroys all clip state derived
// from the previous one.
func (s *Session) SetSource(src *SourceVideo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = src
	s.clips = nil
	s.selected = nil
	s.state = StateIdle
	s.lastError = ""
}

func (s *Session) Source() *SourceVideo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// SetClips replaces the candidate list; any previous selection is dropped.
func (s *Session) SetClips(clips []*VideoClip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clips = clips
	s.selected = nil
}

func (s *Session) Clips() []*VideoClip {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*VideoClip, len(s.clips))
	for i, c := range s.clips {
		out[i] = c.Clone()
	}
	return out
}

func (s *Session) Clip(id string) *VideoClip {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.find(id); c != nil {
		return c.Clone()
	}
	return nil
}

// AttachCaptions sets the caption track on the identified clip. It reports
// whether the clip still exists.
func (s *Session) AttachCaptions(id string, track CaptionTrack) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.find(id)
	if c == nil {
		return false
	}
	c.Captions = track
	return true
}

// Select marks the identified clip as selected and returns a copy of it, or
// nil when the clip does not exist.
func (s *Session) Select(id string) *VideoClip {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.find(id)
	if c == nil {
		return nil
	}
	s.selected = c
	return c.Clone()
}

func (s *Session) Selected() *VideoClip {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	return s.selected.Clone()
}

// find must be called with s.mu held.
func (s *Session) find(id string) *VideoClip {
	for _, c := range s.clips {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Session) SetStyleID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.styleID = id
}

func (s *Session) StyleID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.styleID
}

func (s *Session) SetState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) SetLastError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}
