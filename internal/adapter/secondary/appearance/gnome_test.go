package appearance_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autotheme/internal/adapter/secondary/appearance"
	"autotheme/internal/testutil"
)

func TestGnomeAppearance_SetColorMode(t *testing.T) {
	t.Parallel()

	runner := &testutil.MockCommandRunner{}
	runner.On("Run", "gsettings", "set", "org.gnome.desktop.interface", "color-scheme", "prefer-dark").Return(nil).Once()
	runner.On("Run", "gsettings", "set", "org.gnome.desktop.interface", "color-scheme", "default").Return(nil).Once()
	g := appearance.NewGnomeAppearance(runner)

	require.NoError(t, g.SetColorMode(true))
	require.NoError(t, g.SetColorMode(false))
	runner.AssertExpectations(t)
}

func TestGnomeAppearance_SetWallpaper(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, style, tile, options string
	}{
		{"stretch default", "2", "0", "stretched"},
		{"tiled", "0", "1", "wallpaper"},
		{"centered", "0", "0", "centered"},
		{"fit", "6", "0", "scaled"},
		{"fill", "10", "0", "zoom"},
		{"span", "22", "0", "spanned"},
		{"unknown style", "99", "0", "zoom"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			runner := &testutil.MockCommandRunner{}
			runner.On("Run", "gsettings", "set", "org.gnome.desktop.background", "picture-uri", "file:///walls/a b.jpg").Return(nil).Once()
			runner.On("Run", "gsettings", "set", "org.gnome.desktop.background", "picture-uri-dark", "file:///walls/a b.jpg").Return(nil).Once()
			runner.On("Run", "gsettings", "set", "org.gnome.desktop.background", "picture-options", tt.options).Return(nil).Once()

			require.NoError(t, appearance.NewGnomeAppearance(runner).SetWallpaper("/walls/a b.jpg", tt.style, tt.tile))
			runner.AssertExpectations(t)
		})
	}
}

func TestGnomeAppearance_SetWallpaperStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	runner := &testutil.MockCommandRunner{}
	runner.On("Run", "gsettings", "set", "org.gnome.desktop.background", "picture-uri", "file:///w.jpg").
		Return(errors.New("no schema")).Once()

	err := appearance.NewGnomeAppearance(runner).SetWallpaper("/w.jpg", "2", "0")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "org.gnome.desktop.background.picture-uri")
	runner.AssertExpectations(t)
	runner.AssertNumberOfCalls(t, "Run", 1)
}

func TestGnomeAppearance_SetVisualStyleUsesThemeName(t *testing.T) {
	t.Parallel()

	runner := &testutil.MockCommandRunner{}
	runner.On("Run", "gsettings", "set", "org.gnome.desktop.interface", "gtk-theme", "Adwaita-dark").Return(nil).Once()

	require.NoError(t, appearance.NewGnomeAppearance(runner).SetVisualStyle("/usr/share/themes/Adwaita-dark.msstyles"))
	runner.AssertExpectations(t)
}

func TestGnomeAppearance_BroadcastIsNoop(t *testing.T) {
	t.Parallel()

	runner := &testutil.MockCommandRunner{}
	require.NoError(t, appearance.NewGnomeAppearance(runner).BroadcastSettingsChanged("ImmersiveColorSet"))
	runner.AssertNumberOfCalls(t, "Run", 0)
}
