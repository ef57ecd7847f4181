// Package systray provides the tray trigger surface: a toggle that starts
// and stops clipboard watching, plus shortcuts to the dashboard.
package systray

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/getlantern/systray"
)

// Manager manages the system tray icon and menu
type Manager struct {
	webPort  int
	iconData []byte
	toggles  chan struct{}
	quit     chan struct{}
	watching chan bool
}

// NewManager creates a new systray manager
func NewManager(webPort int, iconData []byte) *Manager {
	return &Manager{
		webPort:  webPort,
		iconData: iconData,
		toggles:  make(chan struct{}, 4),
		quit:     make(chan struct{}),
		watching: make(chan bool, 4),
	}
}

// Run starts the system tray (blocking call)
func (m *Manager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// Stop stops the system tray
func (m *Manager) Stop() {
	systray.Quit()
}

// Toggles returns a channel that receives a signal each time the user
// clicks the watch toggle
func (m *Manager) Toggles() <-chan struct{} {
	return m.toggles
}

// SetWatching updates the toggle's displayed state
func (m *Manager) SetWatching(watching bool) {
	select {
	case m.watching <- watching:
	default:
	}
}

// WaitForQuit returns a channel that will be closed when user clicks Quit
func (m *Manager) WaitForQuit() <-chan struct{} {
	return m.quit
}

// onReady is called when the systray is ready
func (m *Manager) onReady() {
	if len(m.iconData) > 0 {
		systray.SetIcon(m.iconData)
	}

	systray.SetTitle("tlumok")
	systray.SetTooltip("tlumok - clipboard translation")

	mWatch := systray.AddMenuItemCheckbox("Watch clipboard", "Start or stop clipboard watching", false)
	mDashboard := systray.AddMenuItem("Open dashboard", "Open the tlumok dashboard")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit tlumok")

	go func() {
		for {
			select {
			case <-mWatch.ClickedCh:
				m.toggles <- struct{}{}
			case watching := <-m.watching:
				if watching {
					mWatch.Check()
				} else {
					mWatch.Uncheck()
				}
			case <-mDashboard.ClickedCh:
				m.openDashboard()
			case <-mQuit.ClickedCh:
				slog.Info("User requested quit from system tray")
				close(m.quit)
				systray.Quit()
				return
			}
		}
	}()
}

// onExit is called when the systray is exiting
func (m *Manager) onExit() {
	slog.Info("System tray exited")
}

// openDashboard opens the dashboard in the default browser
func (m *Manager) openDashboard() {
	url := fmt.Sprintf("http://localhost:%d", m.webPort)
	slog.Info("Opening dashboard", "url", url)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		slog.Error("Unsupported platform for opening browser", "platform", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		slog.Error("Failed to open dashboard", "error", err)
	}
}
