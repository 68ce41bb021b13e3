package domain

import "time"

// ConfigRepository is a secondary port that defines how to persist configuration.
// This interface is defined in the domain layer and implemented by adapters.
type ConfigRepository interface {
	Load() (Config, error)
	Save(config Config) error
}

// Appearance is a secondary port that mutates the desktop appearance.
// Implementations are thin wrappers around OS primitives.
type Appearance interface {
	SetVisualStyle(path string) error
	SetWallpaper(path, style, tile string) error
	SetColorMode(dark bool) error
	// BroadcastSettingsChanged notifies running applications. An empty
	// qualifier means a generic settings-changed notification.
	BroadcastSettingsChanged(qualifier string) error
	Wait(d time.Duration)
}
