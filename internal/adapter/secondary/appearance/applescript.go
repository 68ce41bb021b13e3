package appearance

import (
	"fmt"
	"strings"
	"time"

	"autotheme/internal/domain"
	"autotheme/internal/logging"
)

// AppleScriptAppearance implements domain.Appearance using macOS osascript.
// This is a secondary adapter.
type AppleScriptAppearance struct {
	runner CommandRunner
}

// NewAppleScriptAppearance creates a new AppleScript appearance adapter.
func NewAppleScriptAppearance(runner CommandRunner) *AppleScriptAppearance {
	return &AppleScriptAppearance{runner: runner}
}

func (a *AppleScriptAppearance) osascript(script string) error {
	if err := a.runner.Run("osascript", "-e", script); err != nil {
		return fmt.Errorf("osascript failed: %w", err)
	}
	return nil
}

// SetVisualStyle is not available on macOS.
func (a *AppleScriptAppearance) SetVisualStyle(path string) error {
	logging.Debugf("macOS has no visual styles, ignoring %s", path)
	return nil
}

// SetWallpaper sets the picture of every desktop. macOS has no tiling, so
// style and tile are ignored.
func (a *AppleScriptAppearance) SetWallpaper(path, style, tile string) error {
	script := fmt.Sprintf(`tell application "System Events" to tell every desktop to set picture to POSIX file %s`, appleScriptString(path))
	return a.osascript(script)
}

func (a *AppleScriptAppearance) SetColorMode(dark bool) error {
	script := fmt.Sprintf(`tell application "System Events" to tell appearance preferences to set dark mode to %t`, dark)
	return a.osascript(script)
}

// BroadcastSettingsChanged is a no-op; System Events notifies applications.
func (a *AppleScriptAppearance) BroadcastSettingsChanged(qualifier string) error {
	return nil
}

func (a *AppleScriptAppearance) Wait(d time.Duration) {
	time.Sleep(d)
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

var _ domain.Appearance = (*AppleScriptAppearance)(nil)
