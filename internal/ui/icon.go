package ui

import (
	"fmt"

	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/studio"
)

// iconBytes is a 16x16 PNG used as the tray icon.
var iconBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0xf3, 0xff, 0x61, 0x00, 0x00, 0x00,
	0x1c, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x60, 0x18, 0x34, 0xe0,
	0x67, 0xb1, 0xd8, 0x7f, 0x52, 0xf0, 0xa8, 0x01, 0xa3, 0x06, 0x0c, 0x57,
	0x03, 0x06, 0x0c, 0x00, 0x00, 0xa8, 0x8c, 0x68, 0xa0, 0x5e, 0x9b, 0x61,
	0x58, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60,
	0x82,
}

func titleFor(st studio.Status) string {
	switch st.State {
	case clip.StateAnalyzing:
		return "Analyzing"
	case clip.StateRendering:
		return "Previewing"
	case clip.StateRecording:
		return "Recording"
	default:
		return "Idle"
	}
}

func clipsTitle(count int) string {
	return fmt.Sprintf("Clips: %d", count)
}
