package scheduler

// Built-in action names. The four pipeline stages are combinable; the
// meta-actions and the "all" pseudo-action must always appear alone.
const (
	ActionCollect    = "collect"
	ActionStage      = "stage"
	ActionStore      = "store"
	ActionPurge      = "purge"
	ActionRebuild    = "rebuild"
	ActionValidate   = "validate"
	ActionInitialize = "initialize"
	ActionAll        = "all"
)

// Execution indices for the built-in actions. Meta-actions get index zero
// since they can never run with anything else anyway.
const (
	RebuildIndex    = 0
	ValidateIndex   = 0
	InitializeIndex = 0
	CollectIndex    = 100
	StageIndex      = 200
	StoreIndex      = 300
	PurgeIndex      = 400
)

// PipelineActions lists the combinable stages in their baseline order.
// "all" expands to exactly this list.
var PipelineActions = []string{ActionCollect, ActionStage, ActionStore, ActionPurge}

// builtinIndices maps every built-in action to its static execution index.
var builtinIndices = map[string]int{
	ActionRebuild:    RebuildIndex,
	ActionValidate:   ValidateIndex,
	ActionInitialize: InitializeIndex,
	ActionCollect:    CollectIndex,
	ActionStage:      StageIndex,
	ActionStore:      StoreIndex,
	ActionPurge:      PurgeIndex,
}

// singletonActions are the names that may not be combined with any other
// requested action, including themselves.
var singletonActions = []string{ActionAll, ActionRebuild, ActionValidate, ActionInitialize}

// IsBuiltin reports whether name is one of the built-in actions ("all" is a
// pseudo-action, not a built-in).
func IsBuiltin(name string) bool {
	_, ok := builtinIndices[name]
	return ok
}

// IsSingleton reports whether name must appear alone in a request.
func IsSingleton(name string) bool {
	for _, s := range singletonActions {
		if name == s {
			return true
		}
	}
	return false
}

// isMeta reports whether name is one of the meta-actions that never
// participates in peer expansion.
func isMeta(name string) bool {
	return name == ActionRebuild || name == ActionValidate || name == ActionInitialize
}
