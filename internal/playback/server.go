// Package playback streams the uploaded source video and exported recordings
// to the browser, with byte-range support for scrubbing.
package playback

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

type Server struct {
	logger *slog.Logger
}

func NewServer(logger *slog.Logger) *Server {
	return &Server{logger: logger}
}

// ServeFile streams filePath with Range support so the browser's video
// element can scrub.
func (s *Server) ServeFile(w http.ResponseWriter, r *http.Request, filePath string) error {
	return s.serve(w, r, filePath, false)
}

// ServeDownload streams filePath as an attachment, used for finished exports.
func (s *Server) ServeDownload(w http.ResponseWriter, r *http.Request, filePath string) error {
	return s.serve(w, r, filePath, true)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, filePath string, download bool) error {
	// Callers join a client-supplied filename under a fixed directory;
	// reject anything still carrying parent traversal.
	if strings.Contains(filePath, "..") {
		http.Error(w, "file not found", http.StatusNotFound)
		return nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "file not found", http.StatusNotFound)
			return nil
		}
		return fmt.Errorf("open %s: %w", filepath.Base(filePath), err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", filepath.Base(filePath), err)
	}
	size := stat.Size()

	contentType := mime.TypeByExtension(filepath.Ext(filePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Type", contentType)
	if download {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(filePath)))
	}

	rng, err := parseRange(r.Header.Get("Range"), size)
	switch {
	case err == ErrUnsatisfiable:
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "range not satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil
	case err == ErrInvalidRange || rng == nil:
		// A malformed Range header degrades to a full response.
		w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
		w.WriteHeader(http.StatusOK)
		io.Copy(w, file)
		return nil
	}

	w.Header().Set("Content-Length", fmt.Sprintf("%d", rng.length()))
	w.Header().Set("Content-Range", rng.contentRange(size))
	w.WriteHeader(http.StatusPartialContent)

	if _, err := file.Seek(rng.start, io.SeekStart); err != nil {
		return fmt.Errorf("seek %s: %w", filepath.Base(filePath), err)
	}
	io.CopyN(w, file, rng.length())
	return nil
}
