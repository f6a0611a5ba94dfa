package view

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is a system tray Binder. The menu shows the stream state and the
// latest status text, and offers start/stop, preview and quit entries.
type Tray struct {
	onToggle  func(streaming bool)
	onPreview func()
	onQuit    func()
	mu        sync.RWMutex

	streaming bool
	loading   bool
	denied    bool
	status    string

	// Menu items stored for later updates
	menuToggle     *systray.MenuItem
	menuStatus     *systray.MenuItem
	menuPermission *systray.MenuItem
}

var _ Binder = (*Tray)(nil)

// NewTray creates a tray binder. Menu updates made before Run are applied
// once the tray is ready.
func NewTray() *Tray {
	return &Tray{status: "Idle"}
}

// OnToggle sets the callback invoked when the user starts or stops the stream.
func (t *Tray) OnToggle(fn func(streaming bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnPreview sets the callback invoked by the preview menu item.
func (t *Tray) OnPreview(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPreview = fn
}

// OnQuit sets the callback invoked by the quit menu item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra gesture streaming")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.streaming), "Start or stop streaming")
	systray.AddSeparator()
	t.menuStatus = systray.AddMenuItem(t.status, "Latest status")
	t.menuStatus.Disable()
	t.menuPermission = systray.AddMenuItem("Camera access denied", "Check the camera device and permissions")
	t.menuPermission.Disable()
	if !t.denied {
		t.menuPermission.Hide()
	}
	systray.AddSeparator()
	menuToggle := t.menuToggle
	t.mu.Unlock()

	menuPreview := systray.AddMenuItem("Open Preview...", "Open the preview in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go func() {
		for {
			select {
			case <-menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuPreview.ClickedCh:
				t.handlePreview()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleToggle() {
	t.mu.RLock()
	streaming := !t.streaming
	callback := t.onToggle
	t.mu.RUnlock()

	// The stream state itself changes through ShowStream/HideStream.
	if callback != nil {
		callback(streaming)
	}
}

func (t *Tray) handlePreview() {
	t.mu.RLock()
	callback := t.onPreview
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

func (t *Tray) ShowLoading() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = true
	t.setStatusLocked("Connecting to the camera...")
}

func (t *Tray) HideLoading() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false
}

func (t *Tray) ShowPermissionPrompt() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.denied = true
	if t.menuPermission != nil {
		t.menuPermission.Show()
	}
}

func (t *Tray) HidePermissionPrompt() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.denied = false
	if t.menuPermission != nil {
		t.menuPermission.Hide()
	}
}

func (t *Tray) ShowStream() { t.setStreaming(true) }
func (t *Tray) HideStream() { t.setStreaming(false) }

func (t *Tray) SetStatusText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setStatusLocked(text)
}

func (t *Tray) ReportError(context string, err error) {
	t.SetStatusText(ErrorText(context, err))
}

// Status returns the status text shown in the menu.
func (t *Tray) Status() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// IsStreaming reports whether the stream is shown.
func (t *Tray) IsStreaming() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.streaming
}

// IsLoading reports whether the loading indicator is shown.
func (t *Tray) IsLoading() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loading
}

// PermissionDenied reports whether the permission prompt is shown.
func (t *Tray) PermissionDenied() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.denied
}

func (t *Tray) setStreaming(streaming bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.streaming = streaming
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(streaming))
	}
}

func (t *Tray) setStatusLocked(text string) {
	t.status = text
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(text)
	}
}

func toggleTitle(streaming bool) string {
	if streaming {
		return "● Streaming"
	}
	return "○ Stopped"
}
