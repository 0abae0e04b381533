package privilege

import (
	"errors"
	"os/exec"
)

// CommandRunner runs an external command and reports its combined output
// and exit status. err is non-nil only when the command could not be run
// at all; a non-zero exit is reported through exitCode.
type CommandRunner interface {
	Run(name string, args ...string) (output string, exitCode int, err error)
}

// ExecCommandRunner executes commands with os/exec.
type ExecCommandRunner struct{}

// NewCommandRunner returns the default command runner implementation.
func NewCommandRunner() CommandRunner {
	return &ExecCommandRunner{}
}

// Run executes a command and returns its combined output.
func (r *ExecCommandRunner) Run(name string, args ...string) (string, int, error) {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err == nil {
		return string(output), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(output), exitErr.ExitCode(), nil
	}
	return string(output), -1, err
}
