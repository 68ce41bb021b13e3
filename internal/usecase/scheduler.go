package usecase

import (
	"autotheme/internal/core"
	"autotheme/internal/domain"
)

// Scheduler is the primary port for scheduler operations. The tray/menu
// and settings collaborators (CLI shell, web UI) depend only on this.
type Scheduler interface {
	Snapshot() domain.Snapshot
	CurrentConfig() domain.Config
	ToggleNow() error
	SetAutomatic(enabled bool) error
	UpdateConfig(config domain.Config) error
	ApplyOnce(profile *bool) error
}

var _ Scheduler = (*core.Manager)(nil)
