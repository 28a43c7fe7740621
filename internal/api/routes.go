package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/clipforge/clipforge-agent/internal/ai"
	"github.com/clipforge/clipforge-agent/internal/capture"
	"github.com/clipforge/clipforge-agent/internal/config"
	"github.com/clipforge/clipforge-agent/internal/gateway"
	"github.com/clipforge/clipforge-agent/internal/sampler"
	"github.com/clipforge/clipforge-agent/internal/studio"
)

// The studio UI runs in the browser on an arbitrary origin; auth is the
// bearer token, not the origin.
func corsMiddleware() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Range"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Range", "Accept-Ranges"},
	}).Handler
}

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(corsMiddleware())

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Settings, cfg.Logger))

		r.Get("/status", statusHandler(cfg))
		r.Post("/source", uploadSourceHandler(cfg))
		r.Get("/source/file", sourceFileHandler(cfg))
		r.Post("/analyze", analyzeHandler(cfg))
		r.Get("/clips", listClipsHandler(cfg))
		r.Post("/clips/{id}/select", selectClipHandler(cfg))
		r.Get("/styles", listStylesHandler(cfg))
		r.Post("/styles/{id}/activate", activateStyleHandler(cfg))
		r.Get("/preview/frame", previewFrameHandler(cfg))
		r.Post("/export", exportHandler(cfg))
		r.Get("/exports/{name}", downloadExportHandler(cfg))
		r.Post("/resolve", resolveHandler(cfg))
		r.Post("/screenshot/edit", editScreenshotHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Version:  config.Version,
			UptimeS:  uptime,
			DeviceID: cfg.DeviceID,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Studio.Status())
	}
}

// uploadSourceHandler receives the video as a multipart "file" part, stores
// it under the uploads directory, and installs it as the session source.
func uploadSourceHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "multipart 'file' part is required", "BAD_REQUEST")
			return
		}
		defer file.Close()

		if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to prepare uploads directory", "INTERNAL_ERROR")
			return
		}

		// One source at a time; a new upload overwrites the previous file.
		dstPath := filepath.Join(cfg.UploadsDir, "source"+filepath.Ext(header.Filename))
		dst, err := os.Create(dstPath)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to store upload", "INTERNAL_ERROR")
			return
		}
		if _, err := io.Copy(dst, file); err != nil {
			dst.Close()
			WriteError(w, http.StatusInternalServerError, "failed to store upload", "INTERNAL_ERROR")
			return
		}
		dst.Close()

		src, err := cfg.Studio.SetSource(r.Context(), dstPath, header.Filename)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		WriteJSON(w, http.StatusCreated, SourceToResponse(src))
	}
}

func sourceFileHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src := cfg.Studio.Status().Source
		if src == nil {
			WriteError(w, http.StatusNotFound, "no source video loaded", "NOT_FOUND")
			return
		}
		if err := cfg.PlaybackServer.ServeFile(w, r, src.Path); err != nil {
			cfg.Logger.Error("source playback error", "error", err)
		}
	}
}

func analyzeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clips, err := cfg.Studio.Analyze(r.Context())
		switch {
		case errors.Is(err, studio.ErrNoSource):
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		case errors.Is(err, sampler.ErrExtractionFailed):
			WriteError(w, http.StatusUnprocessableEntity, err.Error(), "EXTRACTION_FAILED")
			return
		case err != nil:
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, ClipsResponse{Clips: clips})
	}
}

func listClipsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, ClipsResponse{Clips: cfg.Studio.Clips()})
	}
}

func selectClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		vc, err := cfg.Studio.SelectClip(r.Context(), id)
		switch {
		case errors.Is(err, studio.ErrNoSource):
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		case errors.Is(err, studio.ErrClipNotFound):
			WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
			return
		case err != nil:
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, vc)
	}
}

func listStylesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := cfg.Studio.Styles(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list styles", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, StylesResponse{
			Styles:        list,
			ActiveStyleID: cfg.Studio.Status().StyleID,
		})
	}
}

func activateStyleHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		st, err := cfg.Studio.ActivateStyle(r.Context(), id)
		switch {
		case errors.Is(err, studio.ErrStyleNotFound):
			WriteError(w, http.StatusNotFound, "style not found", "NOT_FOUND")
			return
		case err != nil:
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, st)
	}
}

// previewFrameHandler serves the latest composited frame as JPEG. 204 means
// the loop has not published a frame yet; the UI just polls again.
func previewFrameHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, err := cfg.Studio.PreviewFrame()
		switch {
		case errors.Is(err, studio.ErrNoSelection):
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		case errors.Is(err, studio.ErrFrameNotReady):
			w.WriteHeader(http.StatusNoContent)
			return
		case err != nil:
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Cache-Control", "no-store")
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 80}); err != nil {
			cfg.Logger.Error("preview frame encode failed", "error", err)
		}
	}
}

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := cfg.Studio.Export(r.Context())
		switch {
		case errors.Is(err, studio.ErrNoSelection), errors.Is(err, studio.ErrNoSource):
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		case errors.Is(err, capture.ErrRecordingInProgress):
			WriteError(w, http.StatusConflict, err.Error(), "CONFLICT")
			return
		case errors.Is(err, capture.ErrExportUnavailable):
			WriteError(w, http.StatusInternalServerError, err.Error(), "EXPORT_FAILED")
			return
		case err != nil:
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusCreated, ExportResponse{
			Filename:    res.Filename,
			Duration:    res.Duration,
			DownloadURL: "/exports/" + res.Filename,
		})
	}
}

var exportNameRe = regexp.MustCompile(`^clipforge_\d+\.webm$`)

func downloadExportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if !exportNameRe.MatchString(name) {
			WriteError(w, http.StatusNotFound, "export not found", "NOT_FOUND")
			return
		}

		path := filepath.Join(cfg.ExportsDir, name)
		if err := cfg.PlaybackServer.ServeDownload(w, r, path); err != nil {
			cfg.Logger.Error("export download error", "error", err, "file", name)
		}
	}
}

func resolveHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := validate.Struct(req); err != nil {
			WriteError(w, http.StatusBadRequest, "url is required", "BAD_REQUEST")
			return
		}

		res, err := cfg.Resolver.Resolve(req.URL)
		if errors.Is(err, gateway.ErrInvalidURL) {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, res)
	}
}

func editScreenshotHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EditScreenshotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := validate.Struct(req); err != nil {
			WriteError(w, http.StatusBadRequest, "image_base64 and prompt are required", "BAD_REQUEST")
			return
		}

		png, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "image_base64 is not valid base64", "BAD_REQUEST")
			return
		}

		edited, err := cfg.Studio.EditScreenshot(r.Context(), png, req.Prompt)
		if errors.Is(err, ai.ErrNoResult) {
			WriteError(w, http.StatusBadGateway, err.Error(), "UPSTREAM_ERROR")
			return
		}
		if err != nil {
			WriteError(w, http.StatusBadGateway, fmt.Sprintf("image edit failed: %v", err), "UPSTREAM_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, EditScreenshotResponse{
			ImageBase64: base64.StdEncoding.EncodeToString(edited),
		})
	}
}
