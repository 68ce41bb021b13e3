package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autotheme/internal/domain"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	got, err := domain.ParseTimeOfDay("06:30")
	require.NoError(t, err)
	assert.Equal(t, domain.MustTimeOfDay(6, 30, 0), got)

	got, err = domain.ParseTimeOfDay(" 18:05:09 ")
	require.NoError(t, err)
	assert.Equal(t, "18:05:09", got.String())

	for _, bad := range []string{"", "6", "24:00", "12:60", "12:00:60", "aa:bb", "1:2:3:4", "-1:00"} {
		_, err := domain.ParseTimeOfDay(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidTimeOfDay, bad)
	}
}

func TestTimeOfDayOf(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 17, 4, 5, 999, time.UTC)
	assert.Equal(t, domain.MustTimeOfDay(17, 4, 5), domain.TimeOfDayOf(now))
}

func TestConfig_EffectiveInterval(t *testing.T) {
	t.Parallel()

	cfg := domain.DefaultConfig()
	assert.Equal(t, 5*time.Minute, cfg.EffectiveInterval())

	cfg.CheckIntervalMinutes = 0
	assert.Equal(t, time.Minute, cfg.EffectiveInterval())

	cfg.CheckIntervalMinutes = -10
	assert.Equal(t, time.Minute, cfg.EffectiveInterval())
}

func TestConfig_Normalize(t *testing.T) {
	t.Parallel()

	cfg := domain.Config{
		Sunrise:              domain.TimeOfDay{Hour: 99},
		Sunset:               domain.MustTimeOfDay(20, 0, 0),
		CheckIntervalMinutes: -1,
		DayThemePath:         "/themes/day.theme",
	}
	got := cfg.Normalize()

	assert.Equal(t, domain.MustTimeOfDay(6, 0, 0), got.Sunrise)
	assert.Equal(t, domain.MustTimeOfDay(20, 0, 0), got.Sunset)
	assert.Equal(t, domain.DefaultCheckIntervalMinutes, got.CheckIntervalMinutes)
	assert.Equal(t, "/themes/day.theme", got.DayThemePath)
	require.NoError(t, got.Validate())
}

func TestConfig_ProfileSelectors(t *testing.T) {
	t.Parallel()

	cfg := domain.Config{
		DayThemePath:           "day.theme",
		NightThemePath:         "night.theme",
		DayWallpaperOverride:   "day.jpg",
		NightWallpaperOverride: "night.jpg",
	}
	assert.Equal(t, "day.theme", cfg.ThemePath(true))
	assert.Equal(t, "night.theme", cfg.ThemePath(false))
	assert.Equal(t, "day.jpg", cfg.WallpaperOverride(true))
	assert.Equal(t, "night.jpg", cfg.WallpaperOverride(false))
}

func TestParseProfileName(t *testing.T) {
	t.Parallel()

	isDay, err := domain.ParseProfileName("Day")
	require.NoError(t, err)
	assert.True(t, isDay)

	isDay, err = domain.ParseProfileName("night")
	require.NoError(t, err)
	assert.False(t, isDay)

	_, err = domain.ParseProfileName("dusk")
	assert.ErrorIs(t, err, domain.ErrUnknownProfile)

	assert.Equal(t, "day", domain.ProfileName(true))
	assert.Equal(t, "night", domain.ProfileName(false))
}
