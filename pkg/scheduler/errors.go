package scheduler

import "errors"

// Scheduling failures are all configuration problems that are detectable
// before any backup work begins. Callers match them with errors.Is.
var (
	// ErrEmptyRequest means the requested action list was empty.
	ErrEmptyRequest = errors.New("no actions requested")

	// ErrUnknownAction means a requested name is in neither catalog.
	ErrUnknownAction = errors.New("not a valid action or extended action")

	// ErrSingletonConflict means a singleton action was combined with
	// other actions (or repeated).
	ErrSingletonConflict = errors.New("action may not be combined with other actions")

	// ErrUnknownDependency means a before/after entry names an action
	// that is absent from the universe.
	ErrUnknownDependency = errors.New("dependency references an unknown action")

	// ErrCyclicDependency means the dependency graph contains a cycle.
	ErrCyclicDependency = errors.New("cycle found in dependency graph")

	// ErrMissingPriority means an extension has no explicit index while
	// index ordering is in effect.
	ErrMissingPriority = errors.New("extension has no execution index")
)
