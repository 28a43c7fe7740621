// Package config provides configuration management for the ClipForge Agent.
// Configuration is loaded from environment variables with sensible defaults.
// A .env file in the working directory is honored if present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Default values
	DefaultPort     = 8799
	DefaultLogLevel = "info"
	DefaultDataDir  = ".clipforge"

	// Environment variable names
	EnvPort     = "CLIPFORGE_PORT"
	EnvLogLevel = "CLIPFORGE_LOG_LEVEL"
	EnvDataDir  = "CLIPFORGE_DATA_DIR"
	EnvHeadless = "CLIPFORGE_HEADLESS"

	// Media tool environment variable names
	EnvFFmpegPath  = "CLIPFORGE_FFMPEG"
	EnvFFprobePath = "CLIPFORGE_FFPROBE"

	// Collaborator environment variable names
	EnvAIAPIKey       = "CLIPFORGE_AI_API_KEY"
	EnvAIBaseURL      = "CLIPFORGE_AI_BASE_URL"
	EnvAIModel        = "CLIPFORGE_AI_MODEL"
	EnvAIImageModel   = "CLIPFORGE_AI_IMAGE_MODEL"
	EnvGatewayBaseURL = "CLIPFORGE_GATEWAY_BASE_URL"

	// Database filename
	DBFilename = "clipforge.db"

	// Collaborator defaults
	DefaultAIModel        = "gpt-4o-mini"
	DefaultAIImageModel   = "dall-e-2"
	DefaultGatewayBaseURL = "https://cobalt.tools"

	// Timeout defaults (seconds)
	DefaultSampleTimeout = 10
	DefaultAITimeout     = 120
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	UploadsDir() string
	ExportsDir() string
	Headless() bool
	FFmpegPath() string
	FFprobePath() string
	AIAPIKey() string
	AIBaseURL() string
	AIModel() string
	AIImageModel() string
	AITimeout() time.Duration
	GatewayBaseURL() string
	SampleTimeout() time.Duration
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port     int
	logLevel string
	dataDir  string
	headless bool

	ffmpegPath  string
	ffprobePath string

	aiAPIKey       string
	aiBaseURL      string
	aiModel        string
	aiImageModel   string
	gatewayBaseURL string
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	// Best-effort; a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &EnvConfig{
		port:     DefaultPort,
		logLevel: DefaultLogLevel,
		dataDir:  defaultDataDir(),
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	// Override log level from environment
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	// Override data directory from environment
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if h := os.Getenv(EnvHeadless); h == "1" || h == "true" {
		cfg.headless = true
	}

	cfg.ffmpegPath = os.Getenv(EnvFFmpegPath)
	cfg.ffprobePath = os.Getenv(EnvFFprobePath)
	cfg.aiAPIKey = os.Getenv(EnvAIAPIKey)
	cfg.aiBaseURL = os.Getenv(EnvAIBaseURL)
	cfg.aiModel = os.Getenv(EnvAIModel)
	cfg.aiImageModel = os.Getenv(EnvAIImageModel)
	cfg.gatewayBaseURL = os.Getenv(EnvGatewayBaseURL)

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// UploadsDir returns the directory holding the current uploaded source video
func (c *EnvConfig) UploadsDir() string {
	return filepath.Join(c.dataDir, "uploads")
}

// ExportsDir returns the directory exported clip files are written to
func (c *EnvConfig) ExportsDir() string {
	return filepath.Join(c.dataDir, "exports")
}

// Headless reports whether the system tray should be disabled
func (c *EnvConfig) Headless() bool {
	return c.headless
}

func (c *EnvConfig) FFmpegPath() string {
	if c.ffmpegPath != "" {
		return c.ffmpegPath
	}
	return "ffmpeg"
}

func (c *EnvConfig) FFprobePath() string {
	if c.ffprobePath != "" {
		return c.ffprobePath
	}
	return "ffprobe"
}

func (c *EnvConfig) AIAPIKey() string {
	return c.aiAPIKey
}

func (c *EnvConfig) AIBaseURL() string {
	return c.aiBaseURL
}

func (c *EnvConfig) AIModel() string {
	if c.aiModel != "" {
		return c.aiModel
	}
	return DefaultAIModel
}

func (c *EnvConfig) AIImageModel() string {
	if c.aiImageModel != "" {
		return c.aiImageModel
	}
	return DefaultAIImageModel
}

func (c *EnvConfig) AITimeout() time.Duration {
	return time.Duration(DefaultAITimeout) * time.Second
}

func (c *EnvConfig) GatewayBaseURL() string {
	if c.gatewayBaseURL != "" {
		return c.gatewayBaseURL
	}
	return DefaultGatewayBaseURL
}

func (c *EnvConfig) SampleTimeout() time.Duration {
	return time.Duration(DefaultSampleTimeout) * time.Second
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
