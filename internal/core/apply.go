package core

import (
	"errors"
	"fmt"
	"os"
	"time"

	"autotheme/internal/domain"
	"autotheme/internal/logging"
	"autotheme/internal/themefile"
)

// Broadcast qualifiers sent after every apply, in this order, followed by
// an unqualified notification.
const (
	QualifierColorSet = "ImmersiveColorSet"
	QualifierThemes   = "WindowsThemeElement"
)

// DefaultSettleDelay lets the preceding writes land before the broadcast.
const DefaultSettleDelay = 500 * time.Millisecond

// ThemeParser reads theme-description files.
type ThemeParser interface {
	Parse(path string) themefile.Result
}

// Applier turns a profile selection into the ordered OS effects that apply it.
type Applier struct {
	parser ThemeParser
	exists func(path string) bool
	settle time.Duration
}

// ApplierOption configures an Applier.
type ApplierOption func(*Applier)

// WithFileExists replaces the existence check used for configured paths.
func WithFileExists(fn func(path string) bool) ApplierOption {
	return func(a *Applier) { a.exists = fn }
}

// WithSettleDelay replaces the pause before the final broadcast.
func WithSettleDelay(d time.Duration) ApplierOption {
	return func(a *Applier) { a.settle = d }
}

// NewApplier creates an Applier that reads theme files through parser.
func NewApplier(parser ThemeParser, opts ...ApplierOption) *Applier {
	a := &Applier{
		parser: parser,
		exists: fileExists,
		settle: DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Resolve computes the effective appearance values of the selected profile.
// Paths that do not exist are treated as not configured.
func (a *Applier) Resolve(isDay bool, cfg domain.Config) domain.ResolvedProfile {
	profile := domain.ResolvedProfile{
		IsDay:          isDay,
		WallpaperStyle: domain.DefaultWallpaperStyle,
		WallpaperTile:  domain.DefaultWallpaperTile,
	}

	if path := cfg.ThemePath(isDay); path != "" && a.exists(path) {
		profile.ThemePath = path
		settings := a.parser.Parse(path).Settings
		profile.VisualStylePath = settings.VisualStyle()
		if wp := settings.Wallpaper(); wp != "" {
			profile.EffectiveWallpaperPath = wp
			if style := settings.WallpaperStyle(); style != "" {
				profile.WallpaperStyle = style
			}
			if tile := settings.TileWallpaper(); tile != "" {
				profile.WallpaperTile = tile
			}
		}
	} else if path != "" {
		logging.Debugf("%s theme %s not found, skipping", domain.ProfileName(isDay), path)
	}

	if override := cfg.WallpaperOverride(isDay); override != "" {
		if a.exists(override) {
			profile.EffectiveWallpaperPath = override
			profile.WallpaperStyle = domain.DefaultWallpaperStyle
			profile.WallpaperTile = domain.DefaultWallpaperTile
			profile.WallpaperFromOverride = true
		} else {
			logging.Debugf("%s wallpaper override %s not found, skipping", domain.ProfileName(isDay), override)
		}
	}
	return profile
}

// Plan returns the apply sequence for profile. The order is fixed: style,
// wallpaper, color mode, settle pause, then the broadcasts.
func (a *Applier) Plan(profile domain.ResolvedProfile) []Effect {
	var effects []Effect
	if profile.VisualStylePath != "" {
		effects = append(effects, Effect{Type: EffectSetVisualStyle, Path: profile.VisualStylePath})
	}
	if profile.EffectiveWallpaperPath != "" {
		effects = append(effects, Effect{
			Type:  EffectSetWallpaper,
			Path:  profile.EffectiveWallpaperPath,
			Style: profile.WallpaperStyle,
			Tile:  profile.WallpaperTile,
		})
	}
	return append(effects,
		Effect{Type: EffectSetColorMode, Dark: !profile.IsDay},
		Effect{Type: EffectWait, Duration: a.settle},
		Effect{Type: EffectBroadcast, Qualifier: QualifierColorSet},
		Effect{Type: EffectBroadcast, Qualifier: QualifierThemes},
		Effect{Type: EffectBroadcast},
	)
}

// Sequence is Plan(Resolve(isDay, cfg)).
func (a *Applier) Sequence(isDay bool, cfg domain.Config) []Effect {
	return a.Plan(a.Resolve(isDay, cfg))
}

// Execute runs effects in order against appearance. A failing step is
// logged and the remaining steps still run; all failures are returned joined.
func Execute(appearance domain.Appearance, effects []Effect) error {
	var errs []error
	for _, eff := range effects {
		var err error
		switch eff.Type {
		case EffectSetVisualStyle:
			err = appearance.SetVisualStyle(eff.Path)
		case EffectSetWallpaper:
			err = appearance.SetWallpaper(eff.Path, eff.Style, eff.Tile)
		case EffectSetColorMode:
			err = appearance.SetColorMode(eff.Dark)
		case EffectWait:
			appearance.Wait(eff.Duration)
		case EffectBroadcast:
			err = appearance.BroadcastSettingsChanged(eff.Qualifier)
		default:
			err = fmt.Errorf("effect %s cannot be executed directly", eff.Type)
		}
		if err != nil {
			logging.Warnf("%s failed: %v", eff, err)
			errs = append(errs, fmt.Errorf("%s: %w", eff.Type, err))
			continue
		}
		logging.Tracef("%s done", eff)
	}
	return errors.Join(errs...)
}
