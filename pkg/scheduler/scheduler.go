package scheduler

import (
	"fmt"

	"github.com/google/uuid"
)

// Scheduler turns requested action names into a fully resolved execution
// plan. It is a pure computation: it reads the immutable catalogs and specs
// it was built with, performs no I/O, and retains no state between calls.
// Two calls with identical inputs produce identical plans (modulo the
// generated plan ID), and concurrent calls are safe as long as the inputs
// are not mutated underneath it.
type Scheduler struct {
	Catalog  *Catalog
	Mode     OrderMode
	Hooks    []HookSpec
	Peers    []RemotePeerSpec
	Defaults GlobalDefaults
}

// BuildPlan resolves, orders, hook-attaches and peer-expands the requested
// actions. It never executes a handler or opens a connection; it only
// produces the plan. All failures are fatal and no partial plan is ever
// returned.
func (s *Scheduler) BuildPlan(requested []string, managed, local bool) (*Plan, error) {
	resolved, err := ResolveActions(requested, s.Catalog)
	if err != nil {
		return nil, err
	}

	orderer, err := NewOrderer(s.Mode, s.Catalog)
	if err != nil {
		return nil, err
	}
	ordered, err := orderer.Order(resolved)
	if err != nil {
		return nil, err
	}

	items := make([]ActionItem, 0, len(ordered))
	for _, action := range ordered {
		handler, err := s.handlerFor(action.Name)
		if err != nil {
			return nil, err
		}
		items = append(items, ActionItem{
			Name:    action.Name,
			Index:   action.Index,
			Handler: handler,
		})
	}

	items = AttachHooks(items, s.Hooks)
	items = ExpandPeers(items, managed, local, s.Peers, s.Defaults)

	return &Plan{ID: uuid.NewString(), Items: items}, nil
}

// handlerFor binds an action name to its handler identifier. Built-ins use
// their own name; the dispatcher's registry maps both kinds to callables.
func (s *Scheduler) handlerFor(name string) (string, error) {
	if IsBuiltin(name) {
		return name, nil
	}
	ext, ok := s.Catalog.Lookup(name)
	if !ok {
		return "", fmt.Errorf("action [%s]: %w", name, ErrUnknownAction)
	}
	return ext.Handler, nil
}
