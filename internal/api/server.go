// Package api exposes the agent's local HTTP surface consumed by the browser
// studio UI.
package api

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/clipforge/clipforge-agent/internal/capture"
	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/gateway"
	"github.com/clipforge/clipforge-agent/internal/studio"
	"github.com/clipforge/clipforge-agent/internal/styles"
)

// StudioService is the orchestration surface the handlers call into.
type StudioService interface {
	SetSource(ctx context.Context, path, filename string) (*clip.SourceVideo, error)
	Analyze(ctx context.Context) ([]*clip.VideoClip, error)
	Clips() []*clip.VideoClip
	SelectClip(ctx context.Context, id string) (*clip.VideoClip, error)
	Styles(ctx context.Context) ([]*styles.Style, error)
	ActivateStyle(ctx context.Context, id string) (*styles.Style, error)
	PreviewFrame() (*image.RGBA, error)
	Export(ctx context.Context) (*capture.Result, error)
	EditScreenshot(ctx context.Context, png []byte, prompt string) ([]byte, error)
	Status() studio.Status
}

// PlaybackService streams media files with Range support.
type PlaybackService interface {
	ServeFile(w http.ResponseWriter, r *http.Request, filePath string) error
	ServeDownload(w http.ResponseWriter, r *http.Request, filePath string) error
}

// LinkResolver maps external share links onto direct media endpoints.
type LinkResolver interface {
	Resolve(sourceURL string) (*gateway.Resolution, error)
}

// SettingsStore reads agent identity values, the auth token included.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Port           int
	Studio         StudioService
	PlaybackServer PlaybackService
	Resolver       LinkResolver
	Settings       SettingsStore
	UploadsDir     string
	ExportsDir     string
	Logger         *slog.Logger
	StartTime      time.Time
	DeviceID       string
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
