//go:build windows

package appearance

import "autotheme/internal/domain"

// Native returns the appearance adapter for the running platform.
func Native() domain.Appearance {
	return NewWindowsAppearance()
}
