package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"autotheme/internal/domain"
	"autotheme/internal/logging"
	"autotheme/internal/themefile"
)

// Manager coordinates the execution of domain logic and effects.
// It acts as an adapter layer between pure domain logic and side effects.
// All events are handled by a single goroutine, so at most one apply
// sequence runs at any time.
type Manager struct {
	repo       domain.ConfigRepository
	appearance domain.Appearance
	applier    *Applier
	now        func() time.Time

	mu    sync.RWMutex
	state State

	eventCh chan eventRequest
	started atomic.Bool
	done    chan struct{}
}

type eventRequest struct {
	event    Event
	persist  bool
	resultCh chan error
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithApplier replaces the default Applier.
func WithApplier(a *Applier) Option {
	return func(m *Manager) { m.applier = a }
}

// WithAutoSwitch sets whether automatic switching starts enabled (default true).
func WithAutoSwitch(enabled bool) Option {
	return func(m *Manager) { m.state.AutoSwitch = enabled }
}

// NewManager loads configuration and prepares the manager. An error here
// is a startup failure.
func NewManager(repo domain.ConfigRepository, appearance domain.Appearance, opts ...Option) (*Manager, error) {
	if repo == nil || appearance == nil {
		return nil, errors.New("repository and appearance are required")
	}
	cfg, err := repo.Load()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		repo:       repo,
		appearance: appearance,
		now:        time.Now,
		state: State{
			Config:     cfg.Normalize(),
			AutoSwitch: true,
		},
		eventCh: make(chan eventRequest),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.applier == nil {
		m.applier = NewApplier(themefile.NewParser())
	}
	return m, nil
}

// Start applies the current profile once and then launches the event
// processing loop until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) error {
	if !m.started.CompareAndSwap(false, true) {
		return errors.New("manager already started")
	}
	if err := m.process(eventRequest{event: Event{Type: EventStartup}}); err != nil {
		logging.Warnf("initial apply incomplete: %v", err)
	}
	go m.loop(ctx)
	return nil
}

// Done is closed once the loop has stopped.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

func (m *Manager) loop(ctx context.Context) {
	defer close(m.done)

	m.mu.RLock()
	interval := m.state.Config.EffectiveInterval()
	auto := m.state.AutoSwitch
	m.mu.RUnlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	if !auto {
		ticker.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			logging.Infof("scheduler stopped")
			return
		case req := <-m.eventCh:
			err := m.process(req)
			if req.resultCh != nil {
				req.resultCh <- err
			}

			m.mu.RLock()
			newInterval := m.state.Config.EffectiveInterval()
			newAuto := m.state.AutoSwitch
			m.mu.RUnlock()

			restart := req.event.Type == EventSetAutomatic || req.event.Type == EventConfigChanged
			switch {
			case !newAuto:
				ticker.Stop()
			case restart || !auto || newInterval != interval:
				ticker.Reset(newInterval)
			}
			interval, auto = newInterval, newAuto

		case <-ticker.C:
			if err := m.process(eventRequest{event: Event{Type: EventTick}}); err != nil {
				logging.Warnf("scheduled apply incomplete: %v", err)
			}
		}
	}
}

// process reduces one event and executes the resulting effects. It only
// runs on the loop goroutine (or in Start before the loop exists).
func (m *Manager) process(req eventRequest) error {
	if req.persist {
		data := req.event.Data.(ConfigChangedData)
		if err := m.repo.Save(data.Config); err != nil {
			return err
		}
	}

	m.mu.Lock()
	newState, effects, err := HandleEvent(m.state, req.event, m.now())
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.state = newState
	m.mu.Unlock()

	if len(effects) > 0 {
		logging.Infof("%s: applying %s profile", req.event.Type, domain.ProfileName(newState.Activation.IsDay))
	}
	return m.executeEffects(effects)
}

// executeEffects expands apply effects through the Applier and records the outcome.
func (m *Manager) executeEffects(effects []Effect) error {
	var errs []error
	for _, eff := range effects {
		if eff.Type != EffectApplyProfile {
			errs = append(errs, Execute(m.appearance, []Effect{eff}))
			continue
		}
		err := Execute(m.appearance, m.applier.Sequence(eff.IsDay, eff.Config))
		m.mu.Lock()
		m.state = HandleEffectResult(m.state, err)
		m.mu.Unlock()
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (m *Manager) send(req eventRequest) error {
	if !m.started.Load() {
		return domain.ErrStopped
	}
	req.resultCh = make(chan error, 1)
	select {
	case m.eventCh <- req:
	case <-m.done:
		return domain.ErrStopped
	}
	select {
	case err := <-req.resultCh:
		return err
	case <-m.done:
		return domain.ErrStopped
	}
}

// ToggleNow flips the active profile until the next scheduled tick.
func (m *Manager) ToggleNow() error {
	return m.send(eventRequest{event: Event{Type: EventManualToggle}})
}

// SetAutomatic enables or suspends automatic switching.
func (m *Manager) SetAutomatic(enabled bool) error {
	return m.send(eventRequest{event: Event{
		Type: EventSetAutomatic,
		Data: SetAutomaticData{Enabled: enabled},
	}})
}

// UpdateConfig saves cfg and, once saved, makes it the active configuration.
func (m *Manager) UpdateConfig(cfg domain.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return m.send(eventRequest{
		event:   Event{Type: EventConfigChanged, Data: ConfigChangedData{Config: cfg}},
		persist: true,
	})
}

// ReloadConfig activates a configuration that is already persisted.
func (m *Manager) ReloadConfig(cfg domain.Config) error {
	return m.send(eventRequest{
		event: Event{Type: EventConfigChanged, Data: ConfigChangedData{Config: cfg}},
	})
}

// ApplyOnce applies the given profile, or the scheduled one if profile is nil.
func (m *Manager) ApplyOnce(profile *bool) error {
	return m.send(eventRequest{event: Event{
		Type: EventApplyOnce,
		Data: ApplyOnceData{Profile: profile},
	}})
}

// Snapshot returns a copy of the current config and scheduling info.
func (m *Manager) Snapshot() domain.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Snapshot()
}

// CurrentConfig returns a copy of the active config.
func (m *Manager) CurrentConfig() domain.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Config
}
