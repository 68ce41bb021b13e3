// Package testutil holds test doubles for the domain ports.
package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"autotheme/internal/domain"
)

// MockConfigRepository mocks the ConfigRepository port for testing.
type MockConfigRepository struct {
	mock.Mock
}

// Load mocks loading configuration.
func (m *MockConfigRepository) Load() (domain.Config, error) {
	args := m.Called()
	cfg, ok := args.Get(0).(domain.Config)
	if !ok {
		return domain.Config{}, args.Error(1)
	}
	return cfg, args.Error(1)
}

// Save mocks saving configuration.
func (m *MockConfigRepository) Save(cfg domain.Config) error {
	args := m.Called(cfg)
	return args.Error(0)
}

// MemoryRepository is an in-memory ConfigRepository.
type MemoryRepository struct {
	mu    sync.Mutex
	cfg   domain.Config
	Saves int
}

// NewMemoryRepository returns a repository holding cfg.
func NewMemoryRepository(cfg domain.Config) *MemoryRepository {
	return &MemoryRepository{cfg: cfg}
}

func (r *MemoryRepository) Load() (domain.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg, nil
}

func (r *MemoryRepository) Save(cfg domain.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
	r.Saves++
	return nil
}

// RecordingAppearance records every call made to the Appearance port.
// Calls can be made to fail by registering an error per method name.
type RecordingAppearance struct {
	mu       sync.Mutex
	calls    []string
	failures map[string]error
}

// NewRecordingAppearance returns an empty recorder.
func NewRecordingAppearance() *RecordingAppearance {
	return &RecordingAppearance{failures: map[string]error{}}
}

// FailOn makes every call to method return err.
func (r *RecordingAppearance) FailOn(method string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[method] = err
}

func (r *RecordingAppearance) record(method, call string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	return r.failures[method]
}

// Calls returns the recorded calls in order.
func (r *RecordingAppearance) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Reset forgets recorded calls.
func (r *RecordingAppearance) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *RecordingAppearance) SetVisualStyle(path string) error {
	return r.record("SetVisualStyle", fmt.Sprintf("style %s", path))
}

func (r *RecordingAppearance) SetWallpaper(path, style, tile string) error {
	return r.record("SetWallpaper", fmt.Sprintf("wallpaper %s %s %s", path, style, tile))
}

func (r *RecordingAppearance) SetColorMode(dark bool) error {
	return r.record("SetColorMode", fmt.Sprintf("dark=%t", dark))
}

func (r *RecordingAppearance) BroadcastSettingsChanged(qualifier string) error {
	return r.record("BroadcastSettingsChanged", fmt.Sprintf("broadcast %q", qualifier))
}

func (r *RecordingAppearance) Wait(d time.Duration) {
	_ = r.record("Wait", fmt.Sprintf("wait %s", d))
}

// MockCommandRunner mocks running external commands.
type MockCommandRunner struct {
	mock.Mock
}

// Run mocks executing a command.
func (m *MockCommandRunner) Run(name string, args ...string) error {
	callArgs := make([]interface{}, 0, len(args)+1)
	callArgs = append(callArgs, name)
	for _, a := range args {
		callArgs = append(callArgs, a)
	}
	return m.Called(callArgs...).Error(0)
}

var (
	_ domain.ConfigRepository = (*MockConfigRepository)(nil)
	_ domain.ConfigRepository = (*MemoryRepository)(nil)
	_ domain.Appearance       = (*RecordingAppearance)(nil)
)
