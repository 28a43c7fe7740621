package api

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/styles"
)

var validate = validator.New()

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptime_s"`
	DeviceID string `json:"device_id"`
}

type SourceResponse struct {
	Filename   string  `json:"filename"`
	Duration   float64 `json:"duration"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	UploadedAt string  `json:"uploaded_at"`
	StreamURL  string  `json:"stream_url"`
}

func SourceToResponse(src *clip.SourceVideo) SourceResponse {
	return SourceResponse{
		Filename:   src.Filename,
		Duration:   src.Duration,
		Width:      src.Width,
		Height:     src.Height,
		UploadedAt: src.UploadedAt.Format(time.RFC3339),
		StreamURL:  "/source/file",
	}
}

type ClipsResponse struct {
	Clips []*clip.VideoClip `json:"clips"`
}

type StylesResponse struct {
	Styles        []*styles.Style `json:"styles"`
	ActiveStyleID string          `json:"active_style_id"`
}

type ResolveRequest struct {
	URL string `json:"url" validate:"required"`
}

type EditScreenshotRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
	Prompt      string `json:"prompt" validate:"required"`
}

type EditScreenshotResponse struct {
	ImageBase64 string `json:"image_base64"`
}

type ExportResponse struct {
	Filename    string  `json:"filename"`
	Duration    float64 `json:"duration"`
	DownloadURL string  `json:"download_url"`
}
