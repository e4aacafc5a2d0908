package exec

// CommandExecutor defines an interface for running external commands: hook
// commands, shell-backed extension handlers, and the rsh transport for
// managed peers. The abstraction keeps dispatch testable without spawning
// processes.
type CommandExecutor interface {
	// LookPath searches for an executable named file in the directories
	// named by the PATH environment variable.
	LookPath(file string) (string, error)

	// Run executes the command with the given name and arguments and
	// waits for it to complete.
	Run(name string, arg ...string) error

	// RunOutput executes the command and returns its combined output.
	RunOutput(name string, arg ...string) (string, error)
}
