package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultCheckIntervalMinutes is substituted for a non-positive stored interval.
	DefaultCheckIntervalMinutes = 5
	// MinTickInterval is the shortest tick period the scheduler will use.
	MinTickInterval = time.Minute
)

// TimeOfDay is a wall-clock value within a single day. It carries no date
// and no time zone.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// NewTimeOfDay builds a TimeOfDay, validating each component.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidTimeOfDay, hour, minute, second)
	}
	return TimeOfDay{Hour: hour, Minute: minute, Second: second}, nil
}

// MustTimeOfDay is NewTimeOfDay for constants.
func MustTimeOfDay(hour, minute, second int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute, second)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
		}
		nums[i] = n
	}
	return NewTimeOfDay(nums[0], nums[1], nums[2])
}

// TimeOfDayOf extracts the clock part of t in t's own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// Seconds returns the number of seconds since midnight.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Compare returns -1, 0 or +1.
func (t TimeOfDay) Compare(other TimeOfDay) int {
	a, b := t.Seconds(), other.Seconds()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Compare(other) < 0
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Config represents the user configuration of the day/night switcher.
// This is a pure domain model with no dependencies on external concerns.
type Config struct {
	Sunrise                TimeOfDay
	Sunset                 TimeOfDay
	CheckIntervalMinutes   int
	DayThemePath           string
	NightThemePath         string
	DayWallpaperOverride   string
	NightWallpaperOverride string
	// UseGeolocation is reserved. Sunrise and Sunset are always taken literally.
	UseGeolocation bool
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() Config {
	return Config{
		Sunrise:              MustTimeOfDay(6, 0, 0),
		Sunset:               MustTimeOfDay(18, 0, 0),
		CheckIntervalMinutes: DefaultCheckIntervalMinutes,
	}
}

// ThemePath returns the theme-description file of the selected profile.
func (c Config) ThemePath(isDay bool) string {
	if isDay {
		return c.DayThemePath
	}
	return c.NightThemePath
}

// WallpaperOverride returns the wallpaper override of the selected profile.
func (c Config) WallpaperOverride(isDay bool) string {
	if isDay {
		return c.DayWallpaperOverride
	}
	return c.NightWallpaperOverride
}

// EffectiveInterval is the tick period, never shorter than MinTickInterval.
func (c Config) EffectiveInterval() time.Duration {
	d := time.Duration(c.CheckIntervalMinutes) * time.Minute
	if d < MinTickInterval {
		return MinTickInterval
	}
	return d
}

// Validate checks if the configuration values are usable.
func (c Config) Validate() error {
	for _, t := range []TimeOfDay{c.Sunrise, c.Sunset} {
		if _, err := NewTimeOfDay(t.Hour, t.Minute, t.Second); err != nil {
			return err
		}
	}
	if c.CheckIntervalMinutes <= 0 {
		return ErrInvalidInterval
	}
	return nil
}

// Normalize substitutes defaults for values that cannot be used as-is.
func (c Config) Normalize() Config {
	if c.CheckIntervalMinutes <= 0 {
		c.CheckIntervalMinutes = DefaultCheckIntervalMinutes
	}
	def := DefaultConfig()
	if _, err := NewTimeOfDay(c.Sunrise.Hour, c.Sunrise.Minute, c.Sunrise.Second); err != nil {
		c.Sunrise = def.Sunrise
	}
	if _, err := NewTimeOfDay(c.Sunset.Hour, c.Sunset.Minute, c.Sunset.Second); err != nil {
		c.Sunset = def.Sunset
	}
	return c
}

// ActivationState records which profile was last applied and when.
type ActivationState struct {
	IsDay         bool
	LastAppliedAt time.Time
}

// ProfileName returns "day" or "night".
func ProfileName(isDay bool) string {
	if isDay {
		return "day"
	}
	return "night"
}

// ParseProfileName is the inverse of ProfileName.
func ParseProfileName(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "light":
		return true, nil
	case "night", "dark":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownProfile, s)
	}
}

// Wallpaper display-mode values used when a theme file does not specify them.
const (
	DefaultWallpaperStyle = "2" // stretch
	DefaultWallpaperTile  = "0" // no tile
)

// ResolvedProfile is the set of appearance values computed for one apply.
type ResolvedProfile struct {
	IsDay                  bool
	ThemePath              string
	VisualStylePath        string
	EffectiveWallpaperPath string
	WallpaperStyle         string
	WallpaperTile          string
	WallpaperFromOverride  bool
}

// ApplyStatus represents the status of the last apply sequence.
type ApplyStatus int

const (
	StatusNever ApplyStatus = iota
	StatusSuccess
	StatusError
)

func (s ApplyStatus) String() string {
	switch s {
	case StatusNever:
		return "never"
	case StatusSuccess:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot represents a complete view of the system state.
type Snapshot struct {
	Config          Config
	Activation      ActivationState
	AutoSwitch      bool
	NextRun         time.Time
	LastApplyStatus ApplyStatus
	LastError       error
}
