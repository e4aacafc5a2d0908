package scheduler

// ResolvedPeer carries fully resolved connection parameters for one remote
// peer. Every field has been run through the defaulting cascade already; an
// empty string means the value is unset both in the peer entry and in the
// global defaults.
type ResolvedPeer struct {
	Name         string `json:"name"`
	RemoteUser   string `json:"remote_user,omitempty"`
	LocalUser    string `json:"local_user,omitempty"`
	RshCommand   string `json:"rsh_command,omitempty"`
	CbackCommand string `json:"cback_command,omitempty"`
}

// ActionItem is a single unit of work in a plan: an action bound to its
// handler, its hooks, and (for managed remote work) a resolved peer. A
// peer-bearing item and a peer-less item for the same action are distinct
// items and may both appear in a plan.
type ActionItem struct {
	Name      string
	Index     int
	Handler   string
	PreHooks  []HookSpec
	PostHooks []HookSpec

	// RemotePeer is nil for local items.
	RemotePeer *ResolvedPeer
}

// IsRemote reports whether the item is dispatched to a managed peer.
func (it ActionItem) IsRemote() bool {
	return it.RemotePeer != nil
}

// Plan is the ordered sequence of action items produced by one scheduling
// call. Duplicates are permitted and preserved. The plan is owned solely by
// the caller; the scheduler retains no reference after returning it.
type Plan struct {
	ID    string
	Items []ActionItem
}

// Names returns the item names in plan order, mostly for logs and tests.
func (p *Plan) Names() []string {
	names := make([]string, len(p.Items))
	for i, it := range p.Items {
		names[i] = it.Name
	}
	return names
}
