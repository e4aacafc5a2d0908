package scheduler

// RemotePeerSpec describes one remote peer from configuration. Empty string
// fields and a nil ManagedActions fall back to the global defaults,
// independently per field.
type RemotePeerSpec struct {
	Name         string
	RemoteUser   string
	LocalUser    string
	RshCommand   string
	CbackCommand string
	Managed      bool

	// ManagedActions, when non-nil, overrides the global managed-action
	// set for this peer only. nil means "use the global set"; an empty
	// non-nil slice means "manage nothing on this peer".
	ManagedActions []string
}

// GlobalDefaults carries the fleet-wide fallback values for peer fields and
// the global managed-action set.
type GlobalDefaults struct {
	BackupUser     string
	RshCommand     string
	CbackCommand   string
	ManagedActions []string
}

// ExpandPeers distributes the plan across the managed peer fleet.
//
// For each incoming item, the local entry is kept only when local is true,
// and one remote entry is added per managed peer whose effective
// managed-action set contains the item's name (peer declaration order).
// Meta-actions are never peer-expanded, so with local false they drop out
// entirely. With managed false no remote entries are produced at all,
// regardless of the peer or defaults input. An item that yields neither a
// local nor a remote entry contributes nothing; the result may
// legitimately be empty.
func ExpandPeers(items []ActionItem, managed, local bool, peers []RemotePeerSpec, defaults GlobalDefaults) []ActionItem {
	expanded := make([]ActionItem, 0, len(items))
	for _, item := range items {
		if local {
			expanded = append(expanded, item)
		}
		if !managed || isMeta(item.Name) {
			continue
		}
		for _, peer := range peers {
			if !peer.Managed {
				continue
			}
			if !containsAction(effectiveManagedActions(peer, defaults), item.Name) {
				continue
			}
			remote := item
			remote.RemotePeer = resolvePeer(peer, defaults)
			expanded = append(expanded, remote)
		}
	}
	return expanded
}

// effectiveManagedActions picks the per-peer override when present,
// otherwise the global set.
func effectiveManagedActions(peer RemotePeerSpec, defaults GlobalDefaults) []string {
	if peer.ManagedActions != nil {
		return peer.ManagedActions
	}
	return defaults.ManagedActions
}

// resolvePeer runs the field-level defaulting cascade: peer value, then
// global default, then unset. Each field falls back on its own, never as an
// all-or-nothing group.
func resolvePeer(peer RemotePeerSpec, defaults GlobalDefaults) *ResolvedPeer {
	return &ResolvedPeer{
		Name:         peer.Name,
		RemoteUser:   fallback(peer.RemoteUser, defaults.BackupUser),
		LocalUser:    fallback(peer.LocalUser, defaults.BackupUser),
		RshCommand:   fallback(peer.RshCommand, defaults.RshCommand),
		CbackCommand: fallback(peer.CbackCommand, defaults.CbackCommand),
	}
}

func fallback(value, fallbackValue string) string {
	if value == "" {
		return fallbackValue
	}
	return value
}
