package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/clipforge/clipforge-agent/internal/ai"
	"github.com/clipforge/clipforge-agent/internal/api"
	"github.com/clipforge/clipforge-agent/internal/capture"
	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/config"
	"github.com/clipforge/clipforge-agent/internal/db"
	"github.com/clipforge/clipforge-agent/internal/gateway"
	"github.com/clipforge/clipforge-agent/internal/logging"
	"github.com/clipforge/clipforge-agent/internal/media"
	"github.com/clipforge/clipforge-agent/internal/playback"
	"github.com/clipforge/clipforge-agent/internal/render"
	"github.com/clipforge/clipforge-agent/internal/sampler"
	"github.com/clipforge/clipforge-agent/internal/studio"
	"github.com/clipforge/clipforge-agent/internal/styles"
	"github.com/clipforge/clipforge-agent/internal/ui"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	for _, dir := range []string{cfg.DataDir(), cfg.UploadsDir(), cfg.ExportsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting clipforge agent", "version", config.Version, "data_dir", cfg.DataDir())

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	deviceID, err := ensureDeviceID(database)
	if err != nil {
		return fmt.Errorf("failed to ensure device ID: %w", err)
	}

	authToken, err := ensureAuthToken(database)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║                   CLIPFORGE AGENT v0.1.0                  ║")
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d ║\n", cfg.Port())
	fmt.Printf("║  Auth Token: %-45s ║\n", authToken)
	fmt.Printf("║  Device ID:  %-45s ║\n", deviceID[:16]+"...")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	ffmpeg := media.NewExec(cfg.FFmpegPath(), cfg.FFprobePath(), logger)

	var aiClient ai.Client
	if cfg.AIAPIKey() != "" {
		aiClient = ai.NewOpenAIClient(cfg.AIAPIKey(), cfg.AIBaseURL(), cfg.AIModel(), cfg.AIImageModel(), logger)
		logger.Info("ai collaborators enabled", "model", cfg.AIModel(), "image_model", cfg.AIImageModel())
	} else {
		aiClient = ai.NewStubClient(logger)
		logger.Info("no ai api key configured, using stub collaborators")
	}

	styleRepo := styles.NewRepository(database.Conn())
	exporter := capture.NewExporter(cfg.ExportsDir(), func(outPath string) capture.Recorder {
		return capture.NewFFmpegRecorder(cfg.FFmpegPath(), render.CanvasWidth, render.CanvasHeight, capture.FPS, outPath)
	}, logger)

	studioSvc := studio.New(
		clip.NewSession(styles.DefaultStyleID),
		sampler.New(ffmpeg, cfg.SampleTimeout(), logger),
		aiClient,
		styleRepo,
		exporter,
		ffmpeg,
		cfg.SampleTimeout(),
		cfg.AITimeout(),
		logger,
	)
	defer studioSvc.Close()

	playbackSvc := playback.NewServer(logger)
	resolver := gateway.New(cfg.GatewayBaseURL())

	apiServer := api.NewServer(api.ServerConfig{
		Port:           cfg.Port(),
		Studio:         studioSvc,
		PlaybackServer: playbackSvc,
		Resolver:       resolver,
		Settings:       database,
		UploadsDir:     cfg.UploadsDir(),
		ExportsDir:     cfg.ExportsDir(),
		Logger:         logger,
		StartTime:      startTime,
		DeviceID:       deviceID,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			close(quitCh)
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Studio: studioSvc,
			Logger: logger,
			OnOpenExports: func() error {
				return openFolder(cfg.ExportsDir())
			},
			OnQuit: func() {
				close(quitCh)
			},
		})
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func openFolder(path string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Start()
	case "windows":
		return exec.Command("explorer", path).Start()
	default:
		return exec.Command("xdg-open", path).Start()
	}
}

func ensureDeviceID(database *db.DB) (string, error) {
	ctx := context.Background()

	existing, err := database.GetSetting(ctx, "device_id")
	if err == nil && existing != "" {
		return existing, nil
	}

	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return "", err
	}
	deviceID := hex.EncodeToString(idBytes)

	if err := database.SetSetting(ctx, "device_id", deviceID); err != nil {
		return "", err
	}

	return deviceID, nil
}

func ensureAuthToken(database *db.DB) (string, error) {
	ctx := context.Background()

	existing, err := database.GetSetting(ctx, "auth_token")
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := database.SetSetting(ctx, "auth_token", token); err != nil {
		return "", err
	}

	return token, nil
}
