package config

import (
	"os"
	"testing"
)

func TestPort_Default(t *testing.T) {
	os.Unsetenv(EnvPort)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("default Port = %d, want %d", cfg.Port(), DefaultPort)
	}
}

func TestPort_Invalid(t *testing.T) {
	os.Setenv(EnvPort, "not-a-port")
	defer os.Unsetenv(EnvPort)

	if _, err := New(); err == nil {
		t.Fatal("expected error for invalid port, got nil")
	}
}

func TestGatewayBaseURL_Default(t *testing.T) {
	os.Unsetenv(EnvGatewayBaseURL)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GatewayBaseURL() != DefaultGatewayBaseURL {
		t.Errorf("default GatewayBaseURL = %q, want %q", cfg.GatewayBaseURL(), DefaultGatewayBaseURL)
	}
}

func TestAIModel_FromEnv(t *testing.T) {
	os.Setenv(EnvAIModel, "test-model")
	defer os.Unsetenv(EnvAIModel)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AIModel() != "test-model" {
		t.Errorf("AIModel = %q, want %q", cfg.AIModel(), "test-model")
	}
}

func TestFFmpegPath_Default(t *testing.T) {
	os.Unsetenv(EnvFFmpegPath)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FFmpegPath() != "ffmpeg" {
		t.Errorf("default FFmpegPath = %q, want %q", cfg.FFmpegPath(), "ffmpeg")
	}
}
