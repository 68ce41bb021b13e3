//go:build !windows

package appearance

import (
	"runtime"

	"autotheme/internal/domain"
)

// Native returns the appearance adapter for the running platform.
func Native() domain.Appearance {
	switch runtime.GOOS {
	case "darwin":
		return NewAppleScriptAppearance(ExecRunner{})
	case "linux", "freebsd", "openbsd", "netbsd":
		return NewGnomeAppearance(ExecRunner{})
	default:
		return NewNoopAppearance()
	}
}
