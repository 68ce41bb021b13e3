package appearance

import (
	"time"

	"autotheme/internal/domain"
	"autotheme/internal/logging"
)

// NoopAppearance implements domain.Appearance with no-op behavior.
// Useful for dry runs or unsupported platforms.
type NoopAppearance struct{}

// NewNoopAppearance creates a new no-op appearance adapter.
func NewNoopAppearance() domain.Appearance {
	return NoopAppearance{}
}

func (NoopAppearance) SetVisualStyle(path string) error {
	logging.Infof("dry-run: visual style %s", path)
	return nil
}

func (NoopAppearance) SetWallpaper(path, style, tile string) error {
	logging.Infof("dry-run: wallpaper %s (style=%s tile=%s)", path, style, tile)
	return nil
}

func (NoopAppearance) SetColorMode(dark bool) error {
	logging.Infof("dry-run: dark mode %t", dark)
	return nil
}

func (NoopAppearance) BroadcastSettingsChanged(qualifier string) error {
	logging.Infof("dry-run: broadcast %q", qualifier)
	return nil
}

// Wait returns immediately.
func (NoopAppearance) Wait(time.Duration) {}
