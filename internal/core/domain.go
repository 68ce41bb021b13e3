package core

import (
	"fmt"
	"time"

	"autotheme/internal/domain"
)

// HandleEvent is a pure function that takes current state and an event,
// and returns the new state along with effects to be executed.
// This function has no side effects and is fully testable.
func HandleEvent(state State, event Event, now time.Time) (State, []Effect, error) {
	switch event.Type {
	case EventStartup:
		return handleStartup(state, now)
	case EventTick:
		return handleTick(state, now)
	case EventManualToggle:
		return handleManualToggle(state, now)
	case EventSetAutomatic:
		data, ok := event.Data.(SetAutomaticData)
		if !ok {
			return state, nil, fmt.Errorf("invalid SetAutomaticData")
		}
		return handleSetAutomatic(state, data, now)
	case EventConfigChanged:
		data, ok := event.Data.(ConfigChangedData)
		if !ok {
			return state, nil, fmt.Errorf("invalid ConfigChangedData")
		}
		return handleConfigChanged(state, data, now)
	case EventApplyOnce:
		data, ok := event.Data.(ApplyOnceData)
		if !ok {
			return state, nil, fmt.Errorf("invalid ApplyOnceData")
		}
		return handleApplyOnce(state, data, now)
	default:
		return state, nil, fmt.Errorf("unknown event type: %s", event.Type)
	}
}

func scheduledProfile(cfg domain.Config, now time.Time) bool {
	return domain.ResolveProfile(domain.TimeOfDayOf(now), cfg.Sunrise, cfg.Sunset)
}

// activate records isDay as applied at now and returns the apply effect.
func activate(state State, isDay bool, now time.Time) (State, []Effect) {
	state.Activation = domain.ActivationState{IsDay: isDay, LastAppliedAt: now}
	return state, []Effect{{
		Type:   EffectApplyProfile,
		IsDay:  isDay,
		Config: state.Config,
	}}
}

func nextRun(state State, now time.Time) time.Time {
	if !state.AutoSwitch {
		return time.Time{}
	}
	return now.Add(state.Config.EffectiveInterval())
}

func handleStartup(state State, now time.Time) (State, []Effect, error) {
	state.NextRun = nextRun(state, now)
	newState, effects := activate(state, scheduledProfile(state.Config, now), now)
	return newState, effects, nil
}

// handleTick re-applies the schedule-derived profile even when it matches
// the current one; a manual toggle is overwritten here.
func handleTick(state State, now time.Time) (State, []Effect, error) {
	if !state.AutoSwitch {
		state.NextRun = time.Time{}
		return state, nil, nil
	}
	state.NextRun = nextRun(state, now)
	newState, effects := activate(state, scheduledProfile(state.Config, now), now)
	return newState, effects, nil
}

func handleManualToggle(state State, now time.Time) (State, []Effect, error) {
	newState, effects := activate(state, !state.Activation.IsDay, now)
	return newState, effects, nil
}

func handleSetAutomatic(state State, data SetAutomaticData, now time.Time) (State, []Effect, error) {
	switch {
	case data.Enabled && !state.AutoSwitch:
		state.AutoSwitch = true
		state.NextRun = nextRun(state, now)
		newState, effects := activate(state, scheduledProfile(state.Config, now), now)
		return newState, effects, nil
	case !data.Enabled && state.AutoSwitch:
		// The current appearance stays as it is.
		state.AutoSwitch = false
		state.NextRun = time.Time{}
		return state, nil, nil
	default:
		return state, nil, nil
	}
}

func handleConfigChanged(state State, data ConfigChangedData, now time.Time) (State, []Effect, error) {
	state.Config = data.Config.Normalize()
	if !state.AutoSwitch {
		return state, nil, nil
	}
	state.NextRun = nextRun(state, now)
	newState, effects := activate(state, scheduledProfile(state.Config, now), now)
	return newState, effects, nil
}

func handleApplyOnce(state State, data ApplyOnceData, now time.Time) (State, []Effect, error) {
	isDay := scheduledProfile(state.Config, now)
	if data.Profile != nil {
		isDay = *data.Profile
	}
	newState, effects := activate(state, isDay, now)
	return newState, effects, nil
}

// HandleEffectResult updates state based on the result of executing an effect.
// This is called after an apply has been executed to update the state accordingly.
func HandleEffectResult(state State, err error) State {
	if err == nil {
		state.LastApplyStatus = domain.StatusSuccess
		state.LastError = nil
		return state
	}
	state.LastApplyStatus = domain.StatusError
	state.LastError = err
	return state
}
