package exec

import (
	"fmt"
	"os/exec"
)

// ExecError wraps an execution error together with the command output, so
// callers can surface the tail of a failed hook or remote command.
type ExecError struct {
	Err    error
	Output string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Output)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// RealCommandExecutor implements CommandExecutor using os/exec. This is the
// production implementation.
type RealCommandExecutor struct{}

// LookPath searches for an executable named file in the directories
// named by the PATH environment variable.
func (e *RealCommandExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes the command and waits for it to complete. Output is captured
// and folded into the returned error on failure.
func (e *RealCommandExecutor) Run(name string, arg ...string) error {
	_, err := e.RunOutput(name, arg...)
	return err
}

// RunOutput executes the command and returns its combined output.
func (e *RealCommandExecutor) RunOutput(name string, arg ...string) (string, error) {
	cmd := exec.Command(name, arg...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), &ExecError{Err: err, Output: string(output)}
	}
	return string(output), nil
}
