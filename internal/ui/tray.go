// Package ui runs the system tray for the agent.
package ui

import (
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/clipforge/clipforge-agent/internal/studio"
)

// StatusProvider is the session snapshot the tray polls on click-driven
// refreshes.
type StatusProvider interface {
	Status() studio.Status
}

type Tray struct {
	studio StatusProvider
	logger *slog.Logger

	statusItem *systray.MenuItem
	clipsItem  *systray.MenuItem

	mu sync.Mutex

	onOpenExports func() error
	onQuit        func()
}

type TrayConfig struct {
	Studio        StatusProvider
	Logger        *slog.Logger
	OnOpenExports func() error
	OnQuit        func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		studio:        cfg.Studio,
		logger:        cfg.Logger,
		onOpenExports: cfg.OnOpenExports,
		onQuit:        cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("ClipForge")
	systray.SetTooltip("ClipForge Agent")

	t.statusItem = systray.AddMenuItem("Status: Idle", "Current agent status")
	t.statusItem.Disable()

	t.clipsItem = systray.AddMenuItem("Clips: 0", "Candidate clips from the last analysis")
	t.clipsItem.Disable()

	systray.AddSeparator()

	refreshItem := systray.AddMenuItem("Refresh", "Refresh session status")
	exportsItem := systray.AddMenuItem("Open Exports Folder", "Open the exported clips folder")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit ClipForge Agent")

	go func() {
		for {
			select {
			case <-refreshItem.ClickedCh:
				t.refresh()
			case <-exportsItem.ClickedCh:
				t.handleOpenExports()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) refresh() {
	if t.studio == nil {
		return
	}
	st := t.studio.Status()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.statusItem.SetTitle("Status: " + titleFor(st))
	t.clipsItem.SetTitle(clipsTitle(st.ClipCount))
}

func (t *Tray) handleOpenExports() {
	if t.onOpenExports != nil {
		if err := t.onOpenExports(); err != nil {
			t.logger.Error("failed to open exports folder", "error", err)
		}
	}
}

// UpdateStatus pushes a session snapshot into the tray menu.
func (t *Tray) UpdateStatus(st studio.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statusItem.SetTitle("Status: " + titleFor(st))
	t.clipsItem.SetTitle(clipsTitle(st.ClipCount))
}

func (t *Tray) Quit() {
	systray.Quit()
}
