package appearance

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"autotheme/internal/domain"
	"autotheme/internal/logging"
)

const (
	schemaInterface  = "org.gnome.desktop.interface"
	schemaBackground = "org.gnome.desktop.background"
)

// GnomeAppearance implements domain.Appearance with gsettings.
// This is a secondary adapter.
type GnomeAppearance struct {
	runner CommandRunner
}

// NewGnomeAppearance creates a GNOME appearance adapter.
func NewGnomeAppearance(runner CommandRunner) *GnomeAppearance {
	return &GnomeAppearance{runner: runner}
}

func (g *GnomeAppearance) set(schema, key, value string) error {
	if err := g.runner.Run("gsettings", "set", schema, key, value); err != nil {
		return fmt.Errorf("failed to set %s.%s: %w", schema, key, err)
	}
	return nil
}

// SetVisualStyle selects the GTK theme named after the style file.
func (g *GnomeAppearance) SetVisualStyle(path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return g.set(schemaInterface, "gtk-theme", name)
}

// SetWallpaper sets the background for both light and dark variants.
func (g *GnomeAppearance) SetWallpaper(path, style, tile string) error {
	uri := "file://" + path
	settings := []struct {
		key   string
		value string
	}{
		{"picture-uri", uri},
		{"picture-uri-dark", uri},
		{"picture-options", pictureOptions(style, tile)},
	}
	for _, s := range settings {
		if err := g.set(schemaBackground, s.key, s.value); err != nil {
			return err
		}
	}
	return nil
}

// pictureOptions maps the WallpaperStyle/TileWallpaper pair onto GNOME's
// picture-options values.
func pictureOptions(style, tile string) string {
	if tile == "1" {
		return "wallpaper"
	}
	switch style {
	case "0":
		return "centered"
	case "2":
		return "stretched"
	case "6":
		return "scaled"
	case "10":
		return "zoom"
	case "22":
		return "spanned"
	default:
		return "zoom"
	}
}

func (g *GnomeAppearance) SetColorMode(dark bool) error {
	scheme := "default"
	if dark {
		scheme = "prefer-dark"
	}
	return g.set(schemaInterface, "color-scheme", scheme)
}

// BroadcastSettingsChanged is a no-op: dconf notifies GNOME applications itself.
func (g *GnomeAppearance) BroadcastSettingsChanged(qualifier string) error {
	logging.Tracef("gnome: broadcast %q not needed", qualifier)
	return nil
}

func (g *GnomeAppearance) Wait(d time.Duration) {
	time.Sleep(d)
}

var _ domain.Appearance = (*GnomeAppearance)(nil)
