package appearance

import (
	"fmt"
	"os/exec"
	"strings"

	"autotheme/internal/logging"
)

// CommandRunner runs an external program.
type CommandRunner interface {
	Run(name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name and reports its combined output on failure.
func (ExecRunner) Run(name string, args ...string) error {
	logging.Tracef("exec %s %s", name, strings.Join(args, " "))
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w, output: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
