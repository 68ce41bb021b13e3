package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autotheme/internal/domain"
)

type fakeScheduler struct {
	snap      domain.Snapshot
	updated   *domain.Config
	toggles   int
	auto      []bool
	applied   []*bool
	updateErr error
	cmdErr    error
}

func (f *fakeScheduler) Snapshot() domain.Snapshot    { return f.snap }
func (f *fakeScheduler) CurrentConfig() domain.Config { return f.snap.Config }
func (f *fakeScheduler) ToggleNow() error             { f.toggles++; return f.cmdErr }
func (f *fakeScheduler) SetAutomatic(enabled bool) error {
	f.auto = append(f.auto, enabled)
	return f.cmdErr
}
func (f *fakeScheduler) ApplyOnce(profile *bool) error {
	f.applied = append(f.applied, profile)
	return f.cmdErr
}
func (f *fakeScheduler) UpdateConfig(cfg domain.Config) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = &cfg
	f.snap.Config = cfg
	return nil
}

func newFake() *fakeScheduler {
	return &fakeScheduler{snap: domain.Snapshot{
		Config:          domain.DefaultConfig(),
		Activation:      domain.ActivationState{IsDay: true},
		AutoSwitch:      true,
		LastApplyStatus: domain.StatusSuccess,
	}}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetConfig(t *testing.T) {
	t.Parallel()

	h := NewServer(newFake(), "127.0.0.1:0").Handler()
	rec := do(t, h, http.MethodGet, "/api/config", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var view map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "day", view["profile"])
	assert.Equal(t, true, view["automatic"])
	cfg := view["config"].(map[string]any)
	assert.Equal(t, "06:00:00", cfg["sunrise"])
	assert.Equal(t, float64(5), cfg["checkIntervalMinutes"])
}

func TestPutConfigMergesFields(t *testing.T) {
	t.Parallel()

	fake := newFake()
	h := NewServer(fake, "").Handler()
	rec := do(t, h, http.MethodPut, "/api/config", `{"sunset":"20:15","nightThemePath":"/t/night.theme"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, fake.updated)
	assert.Equal(t, domain.MustTimeOfDay(20, 15, 0), fake.updated.Sunset)
	assert.Equal(t, domain.MustTimeOfDay(6, 0, 0), fake.updated.Sunrise)
	assert.Equal(t, "/t/night.theme", fake.updated.NightThemePath)
}

func TestPutConfigValidation(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"sunrise":"7pm"}`, `{"checkIntervalMinutes":0}`, `not json`} {
		fake := newFake()
		rec := do(t, NewServer(fake, "").Handler(), http.MethodPut, "/api/config", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Nil(t, fake.updated, body)
	}
}

func TestPutConfigSaveFailure(t *testing.T) {
	t.Parallel()

	fake := newFake()
	fake.updateErr = errors.New("disk full")
	rec := do(t, NewServer(fake, "").Handler(), http.MethodPut, "/api/config", `{"sunset":"19:00"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCommands(t *testing.T) {
	t.Parallel()

	fake := newFake()
	h := NewServer(fake, "").Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/toggle", "").Code)
	assert.Equal(t, 1, fake.toggles)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/auto", `{"enabled":false}`).Code)
	assert.Equal(t, []bool{false}, fake.auto)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/auto", `{}`).Code)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/apply?profile=night", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/apply", "").Code)
	require.Len(t, fake.applied, 2)
	require.NotNil(t, fake.applied[0])
	assert.False(t, *fake.applied[0])
	assert.Nil(t, fake.applied[1])
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/apply?profile=dusk", "").Code)

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/api/toggle", "").Code)
}

func TestCommandsAfterStop(t *testing.T) {
	t.Parallel()

	fake := newFake()
	fake.cmdErr = domain.ErrStopped
	rec := do(t, NewServer(fake, "").Handler(), http.MethodPost, "/api/toggle", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRootServesPage(t *testing.T) {
	t.Parallel()

	h := NewServer(newFake(), "").Handler()
	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Toggle theme now")
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/missing", "").Code)
}
