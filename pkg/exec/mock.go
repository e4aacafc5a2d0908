package exec

import (
	"strings"
)

// MockCommandExecutor is a mock implementation of CommandExecutor for
// testing. It records every command that would be executed without actually
// running anything.
type MockCommandExecutor struct {
	// Commands records all commands that were executed.
	Commands []string

	// LookPathFunc allows custom behavior for LookPath in tests.
	LookPathFunc func(file string) (string, error)

	// RunFunc allows custom behavior for Run/RunOutput in tests.
	RunFunc func(name string, arg ...string) (string, error)
}

// LookPath implements the CommandExecutor interface for testing.
func (m *MockCommandExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	// By default, assume commands exist
	return "/path/to/" + file, nil
}

// Run implements the CommandExecutor interface for testing.
func (m *MockCommandExecutor) Run(name string, arg ...string) error {
	_, err := m.RunOutput(name, arg...)
	return err
}

// RunOutput records the command that would be executed.
func (m *MockCommandExecutor) RunOutput(name string, arg ...string) (string, error) {
	cmdStr := name
	if len(arg) > 0 {
		cmdStr = name + " " + strings.Join(arg, " ")
	}
	m.Commands = append(m.Commands, cmdStr)

	if m.RunFunc != nil {
		return m.RunFunc(name, arg...)
	}
	return "", nil
}
