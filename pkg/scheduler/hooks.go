package scheduler

// HookPhase says whether a hook command runs before or after its action.
type HookPhase string

const (
	HookPre  HookPhase = "pre"
	HookPost HookPhase = "post"
)

// HookSpec is one configured hook command, bound to an action by name.
// Multiple hooks per action and phase are allowed; they run in declaration
// order.
type HookSpec struct {
	Action  string
	Phase   HookPhase
	Command string
}

// AttachHooks binds the configured hooks to each item by action name and
// phase. Attachment is purely a lookup: it never reorders or rejects items,
// and an item only ever receives the hooks configured for its own name.
// Items with no matching hooks keep nil hook slices.
func AttachHooks(items []ActionItem, hooks []HookSpec) []ActionItem {
	pre := make(map[string][]HookSpec)
	post := make(map[string][]HookSpec)
	for _, hook := range hooks {
		switch hook.Phase {
		case HookPre:
			pre[hook.Action] = append(pre[hook.Action], hook)
		case HookPost:
			post[hook.Action] = append(post[hook.Action], hook)
		}
	}
	for i := range items {
		items[i].PreHooks = pre[items[i].Name]
		items[i].PostHooks = post[items[i].Name]
	}
	return items
}
