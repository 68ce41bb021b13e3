package core

import (
	"fmt"
	"time"

	"autotheme/internal/domain"
)

// EffectType represents the type of side effect to be performed.
type EffectType string

const (
	// EffectApplyProfile is produced by the reducer and expanded by the
	// Applier into the OS-level effects below.
	EffectApplyProfile EffectType = "ApplyProfile"

	EffectSetVisualStyle EffectType = "SetVisualStyle"
	EffectSetWallpaper   EffectType = "SetWallpaper"
	EffectSetColorMode   EffectType = "SetColorMode"
	EffectWait           EffectType = "Wait"
	EffectBroadcast      EffectType = "BroadcastSettingsChanged"
)

// Effect represents a side effect that should be performed by the adapter layer.
// The domain layer produces Effects without executing them, maintaining purity.
type Effect struct {
	Type EffectType

	// EffectApplyProfile
	IsDay  bool
	Config domain.Config

	// EffectSetVisualStyle, EffectSetWallpaper
	Path  string
	Style string
	Tile  string

	// EffectSetColorMode
	Dark bool

	// EffectBroadcast; empty means a generic notification.
	Qualifier string

	// EffectWait
	Duration time.Duration
}

func (e Effect) String() string {
	switch e.Type {
	case EffectApplyProfile:
		return fmt.Sprintf("%s(%s)", e.Type, domain.ProfileName(e.IsDay))
	case EffectSetVisualStyle:
		return fmt.Sprintf("%s(%s)", e.Type, e.Path)
	case EffectSetWallpaper:
		return fmt.Sprintf("%s(%s, style=%s, tile=%s)", e.Type, e.Path, e.Style, e.Tile)
	case EffectSetColorMode:
		return fmt.Sprintf("%s(dark=%t)", e.Type, e.Dark)
	case EffectWait:
		return fmt.Sprintf("%s(%s)", e.Type, e.Duration)
	case EffectBroadcast:
		return fmt.Sprintf("%s(%q)", e.Type, e.Qualifier)
	default:
		return string(e.Type)
	}
}

// Event represents an input event to the domain.
type Event struct {
	Type EventType
	Data interface{}
}

// EventType represents the type of event.
type EventType string

const (
	EventStartup       EventType = "Startup"
	EventTick          EventType = "Tick"
	EventManualToggle  EventType = "ManualToggle"
	EventSetAutomatic  EventType = "SetAutomatic"
	EventConfigChanged EventType = "ConfigChanged"
	EventApplyOnce     EventType = "ApplyOnce"
)

// SetAutomaticData contains data for automatic-switching events.
type SetAutomaticData struct {
	Enabled bool
}

// ConfigChangedData contains the replacement configuration.
type ConfigChangedData struct {
	Config domain.Config
}

// ApplyOnceData contains data for one-time apply events.
type ApplyOnceData struct {
	Profile *bool // nil means the schedule decides; true is day
}

// State represents the current state of the scheduler.
type State struct {
	Config          domain.Config
	Activation      domain.ActivationState
	AutoSwitch      bool
	NextRun         time.Time
	LastApplyStatus domain.ApplyStatus
	LastError       error
}

// Snapshot returns a copy suitable for external consumption.
func (s State) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Config:          s.Config,
		Activation:      s.Activation,
		AutoSwitch:      s.AutoSwitch,
		NextRun:         s.NextRun,
		LastApplyStatus: s.LastApplyStatus,
		LastError:       s.LastError,
	}
}
