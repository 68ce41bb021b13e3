//go:build windows

package appearance

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"autotheme/internal/domain"
)

const (
	keyPersonalize  = `Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`
	keyThemeManager = `Software\Microsoft\Windows\CurrentVersion\ThemeManager`
	keyDesktop      = `Control Panel\Desktop`

	spiSetDeskWallpaper = 0x0014
	spifUpdateIniFile   = 0x01
	spifSendChange      = 0x02

	hwndBroadcast   = 0xFFFF
	wmSettingChange = 0x001A
	smtoAbortIfHung = 0x0002
	broadcastWaitMs = 5000
)

var (
	user32                    = windows.NewLazySystemDLL("user32.dll")
	procSystemParametersInfoW = user32.NewProc("SystemParametersInfoW")
	procSendMessageTimeoutW   = user32.NewProc("SendMessageTimeoutW")
)

// WindowsAppearance implements domain.Appearance with the registry and user32.
// This is a secondary adapter.
type WindowsAppearance struct{}

// NewWindowsAppearance creates a Windows appearance adapter.
func NewWindowsAppearance() *WindowsAppearance {
	return &WindowsAppearance{}
}

func setValues(path string, set func(k registry.Key) error) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, path, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open HKCU\\%s: %w", path, err)
	}
	defer k.Close()
	if err := set(k); err != nil {
		return fmt.Errorf("write HKCU\\%s: %w", path, err)
	}
	return nil
}

func (w *WindowsAppearance) SetVisualStyle(path string) error {
	return setValues(keyThemeManager, func(k registry.Key) error {
		if err := k.SetStringValue("DllName", path); err != nil {
			return err
		}
		return k.SetStringValue("ThemeActive", "1")
	})
}

func (w *WindowsAppearance) SetWallpaper(path, style, tile string) error {
	err := setValues(keyDesktop, func(k registry.Key) error {
		if err := k.SetStringValue("WallpaperStyle", style); err != nil {
			return err
		}
		return k.SetStringValue("TileWallpaper", tile)
	})
	if err != nil {
		return err
	}
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	r, _, callErr := procSystemParametersInfoW.Call(
		spiSetDeskWallpaper, 0, uintptr(unsafe.Pointer(p)), spifUpdateIniFile|spifSendChange)
	if r == 0 {
		return fmt.Errorf("SystemParametersInfoW: %w", callErr)
	}
	return nil
}

func (w *WindowsAppearance) SetColorMode(dark bool) error {
	light := uint32(1)
	if dark {
		light = 0
	}
	return setValues(keyPersonalize, func(k registry.Key) error {
		if err := k.SetDWordValue("AppsUseLightTheme", light); err != nil {
			return err
		}
		return k.SetDWordValue("SystemUsesLightTheme", light)
	})
}

// BroadcastSettingsChanged sends WM_SETTINGCHANGE to all top-level windows.
func (w *WindowsAppearance) BroadcastSettingsChanged(qualifier string) error {
	var result uintptr
	var r uintptr
	var callErr error
	if qualifier == "" {
		r, _, callErr = procSendMessageTimeoutW.Call(
			hwndBroadcast, wmSettingChange, 0, 0,
			smtoAbortIfHung, broadcastWaitMs, uintptr(unsafe.Pointer(&result)))
	} else {
		q, err := windows.UTF16PtrFromString(qualifier)
		if err != nil {
			return err
		}
		r, _, callErr = procSendMessageTimeoutW.Call(
			hwndBroadcast, wmSettingChange, 0, uintptr(unsafe.Pointer(q)),
			smtoAbortIfHung, broadcastWaitMs, uintptr(unsafe.Pointer(&result)))
	}
	if r == 0 {
		return fmt.Errorf("SendMessageTimeoutW(%q): %w", qualifier, callErr)
	}
	return nil
}

func (w *WindowsAppearance) Wait(d time.Duration) {
	time.Sleep(d)
}

var _ domain.Appearance = (*WindowsAppearance)(nil)
