package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"autotheme/internal/domain"
	"autotheme/internal/testutil"
	"autotheme/internal/themefile"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(2024, 6, 1, hour, minute, 0, 0, time.Local)
}

type nullParser struct{}

func (nullParser) Parse(string) themefile.Result {
	return themefile.Result{Settings: themefile.Settings{}}
}

func colorModes(calls []string) []string {
	var out []string
	for _, c := range calls {
		if c == "dark=true" || c == "dark=false" {
			out = append(out, c)
		}
	}
	return out
}

func newTestManager(t *testing.T, repo domain.ConfigRepository, opts ...Option) (*Manager, *testutil.RecordingAppearance, *fakeClock) {
	t.Helper()
	clock := &fakeClock{}
	clock.Set(12, 0)
	rec := testutil.NewRecordingAppearance()
	applier := NewApplier(nullParser{}, WithFileExists(func(string) bool { return false }), WithSettleDelay(0))
	opts = append([]Option{WithClock(clock.Now), WithApplier(applier)}, opts...)
	m, err := NewManager(repo, rec, opts...)
	require.NoError(t, err)
	return m, rec, clock
}

func startManager(t *testing.T, m *Manager) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx))
	t.Cleanup(func() {
		cancel()
		<-m.Done()
	})
}

func (m *Manager) tick() error {
	return m.send(eventRequest{event: Event{Type: EventTick}})
}

func TestManager_StartupAppliesOnce(t *testing.T) {
	m, rec, _ := newTestManager(t, testutil.NewMemoryRepository(domain.DefaultConfig()))
	startManager(t, m)

	assert.Equal(t, []string{"dark=false", "wait 0s", `broadcast "ImmersiveColorSet"`, `broadcast "WindowsThemeElement"`, `broadcast ""`}, rec.Calls())
	snap := m.Snapshot()
	assert.True(t, snap.Activation.IsDay)
	assert.True(t, snap.AutoSwitch)
	assert.Equal(t, domain.StatusSuccess, snap.LastApplyStatus)
}

func TestManager_StartupLoadFailureIsFatal(t *testing.T) {
	repo := &testutil.MockConfigRepository{}
	repo.On("Load").Return(nil, errors.New("permission denied")).Once()

	_, err := NewManager(repo, testutil.NewRecordingAppearance())

	require.Error(t, err)
	repo.AssertExpectations(t)
}

func TestManager_CommandsBeforeStartAreRejected(t *testing.T) {
	m, _, _ := newTestManager(t, testutil.NewMemoryRepository(domain.DefaultConfig()))
	assert.ErrorIs(t, m.ToggleNow(), domain.ErrStopped)
}

func TestManager_StartTwiceFails(t *testing.T) {
	m, _, _ := newTestManager(t, testutil.NewMemoryRepository(domain.DefaultConfig()))
	startManager(t, m)
	assert.Error(t, m.Start(context.Background()))
}

func TestManager_ToggleThenTickRestoresSchedule(t *testing.T) {
	m, rec, _ := newTestManager(t, testutil.NewMemoryRepository(domain.DefaultConfig()))
	startManager(t, m)
	rec.Reset()

	require.NoError(t, m.ToggleNow())
	assert.False(t, m.Snapshot().Activation.IsDay)

	require.NoError(t, m.tick())
	assert.True(t, m.Snapshot().Activation.IsDay)

	assert.Equal(t, []string{"dark=true", "dark=false"}, colorModes(rec.Calls()))
}

func TestManager_SetAutomatic(t *testing.T) {
	m, rec, clock := newTestManager(t, testutil.NewMemoryRepository(domain.DefaultConfig()))
	startManager(t, m)
	require.NoError(t, m.ToggleNow())
	rec.Reset()

	require.NoError(t, m.SetAutomatic(false))
	assert.Empty(t, rec.Calls(), "disabling keeps the current appearance")
	assert.False(t, m.Snapshot().Activation.IsDay)

	clock.Set(23, 0)
	require.NoError(t, m.tick())
	assert.Empty(t, rec.Calls(), "ticks are suspended")

	clock.Set(13, 0)
	require.NoError(t, m.SetAutomatic(true))
	assert.Equal(t, []string{"dark=false"}, colorModes(rec.Calls()))
	assert.True(t, m.Snapshot().Activation.IsDay)
	assert.Equal(t, clock.Now().Add(5*time.Minute), m.Snapshot().NextRun)
}

func TestManager_UpdateConfigSavesThenApplies(t *testing.T) {
	repo := testutil.NewMemoryRepository(domain.DefaultConfig())
	m, rec, _ := newTestManager(t, repo)
	startManager(t, m)
	rec.Reset()

	cfg := domain.DefaultConfig()
	cfg.Sunset = domain.MustTimeOfDay(11, 30, 0)
	cfg.CheckIntervalMinutes = 1
	require.NoError(t, m.UpdateConfig(cfg))

	assert.Equal(t, 1, repo.Saves)
	saved, _ := repo.Load()
	assert.Equal(t, cfg, saved)
	assert.Equal(t, cfg, m.CurrentConfig())
	assert.Equal(t, []string{"dark=true"}, colorModes(rec.Calls()))
}

func TestManager_UpdateConfigNotSwappedWhenSaveFails(t *testing.T) {
	repo := &testutil.MockConfigRepository{}
	repo.On("Load").Return(domain.DefaultConfig(), nil).Once()
	repo.On("Save", mock.Anything).Return(errors.New("read-only file system")).Once()
	m, rec, _ := newTestManager(t, repo)
	startManager(t, m)
	rec.Reset()

	cfg := domain.DefaultConfig()
	cfg.DayThemePath = "/themes/new.theme"
	err := m.UpdateConfig(cfg)

	require.Error(t, err)
	assert.Equal(t, domain.DefaultConfig(), m.CurrentConfig())
	assert.Empty(t, rec.Calls())
	repo.AssertExpectations(t)
}

func TestManager_UpdateConfigRejectsInvalid(t *testing.T) {
	m, _, _ := newTestManager(t, testutil.NewMemoryRepository(domain.DefaultConfig()))
	startManager(t, m)

	cfg := domain.DefaultConfig()
	cfg.CheckIntervalMinutes = 0
	assert.ErrorIs(t, m.UpdateConfig(cfg), domain.ErrInvalidInterval)
}

func TestManager_ConfigChangeWhileDisabledDoesNotApply(t *testing.T) {
	repo := testutil.NewMemoryRepository(domain.DefaultConfig())
	m, rec, _ := newTestManager(t, repo, WithAutoSwitch(false))
	startManager(t, m)
	rec.Reset()

	cfg := domain.DefaultConfig()
	cfg.Sunrise = domain.MustTimeOfDay(7, 0, 0)
	require.NoError(t, m.ReloadConfig(cfg))

	assert.Empty(t, rec.Calls())
	assert.Equal(t, 0, repo.Saves, "reload does not persist again")
	assert.Equal(t, cfg.Sunrise, m.CurrentConfig().Sunrise)
}

func TestManager_ApplyFailureIsRecordedAndLoopSurvives(t *testing.T) {
	m, rec, _ := newTestManager(t, testutil.NewMemoryRepository(domain.DefaultConfig()))
	rec.FailOn("SetColorMode", errors.New("dbus unavailable"))
	startManager(t, m)

	snap := m.Snapshot()
	assert.Equal(t, domain.StatusError, snap.LastApplyStatus)
	require.Error(t, snap.LastError)
	assert.Contains(t, snap.LastError.Error(), "dbus unavailable")
	assert.Contains(t, rec.Calls(), `broadcast ""`, "later steps still ran")

	err := m.ToggleNow()
	assert.Error(t, err)
	assert.False(t, m.Snapshot().Activation.IsDay)
}

func TestManager_ApplyOnce(t *testing.T) {
	m, rec, _ := newTestManager(t, testutil.NewMemoryRepository(domain.DefaultConfig()))
	startManager(t, m)
	rec.Reset()

	night := false
	require.NoError(t, m.ApplyOnce(&night))
	require.NoError(t, m.ApplyOnce(nil))

	assert.Equal(t, []string{"dark=true", "dark=false"}, colorModes(rec.Calls()))
}

func TestManager_StopRejectsFurtherCommands(t *testing.T) {
	m, rec, _ := newTestManager(t, testutil.NewMemoryRepository(domain.DefaultConfig()))
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx))
	rec.Reset()

	cancel()
	<-m.Done()

	assert.ErrorIs(t, m.ToggleNow(), domain.ErrStopped)
	assert.Empty(t, rec.Calls(), "shutdown performs no apply")
}
