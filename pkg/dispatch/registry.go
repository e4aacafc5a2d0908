package dispatch

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	cbexec "github.com/hollowoak/cback/pkg/exec"
	"github.com/hollowoak/cback/pkg/scheduler"
)

// HandlerFunc is the callable an action item's handler identifier resolves
// to. The action name is passed through so one function can serve several
// registrations.
type HandlerFunc func(action string) error

// Registry maps handler identifiers to callables. The scheduler only ever
// records identifiers in the plan; this registry is what turns them back
// into work at dispatch time.
type Registry struct {
	handlers map[string]HandlerFunc
}

// NewRegistry returns an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]HandlerFunc)}
}

// Register binds a handler identifier to a callable. Later registrations
// replace earlier ones, which is how the real backup subsystems override
// the built-in stubs.
func (r *Registry) Register(id string, fn HandlerFunc) {
	r.handlers[id] = fn
}

// Resolve looks up the callable for a handler identifier.
func (r *Registry) Resolve(id string) (HandlerFunc, bool) {
	fn, ok := r.handlers[id]
	return fn, ok
}

// Handlers returns the registered identifiers, sorted, for diagnostics.
func (r *Registry) Handlers() []string {
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RegisterBuiltinStubs registers placeholder handlers for every built-in
// action. The collect/stage/store/purge/rebuild/validate/initialize
// subsystems replace these when they are linked in; the stubs exist so
// dry-runs and partial builds resolve every plan item.
func (r *Registry) RegisterBuiltinStubs(logger *logrus.Logger) {
	for _, name := range []string{
		scheduler.ActionCollect,
		scheduler.ActionStage,
		scheduler.ActionStore,
		scheduler.ActionPurge,
		scheduler.ActionRebuild,
		scheduler.ActionValidate,
		scheduler.ActionInitialize,
	} {
		action := name
		r.Register(action, func(string) error {
			return fmt.Errorf("action [%s] has no subsystem linked into this build", action)
		})
		logger.WithField("action", action).Debug("Registered built-in stub handler")
	}
}

// RegisterShellHandler binds a handler identifier to a shell command run
// through the executor. Command-backed extensions from configuration are
// registered this way.
func (r *Registry) RegisterShellHandler(id, command string, executor cbexec.CommandExecutor) {
	r.Register(id, func(string) error {
		fields, err := splitCommand(command)
		if err != nil {
			return fmt.Errorf("handler [%s]: %w", id, err)
		}
		if len(fields) == 0 {
			return fmt.Errorf("handler [%s] has an empty command", id)
		}
		return executor.Run(fields[0], fields[1:]...)
	})
}
