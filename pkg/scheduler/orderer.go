package scheduler

import (
	"fmt"
	"sort"
)

// OrderedAction is an action name bound to the execution index the orderer
// assigned to it.
type OrderedAction struct {
	Name  string
	Index int
}

// Orderer turns a resolved request into an ordered sequence of actions.
// The two implementations correspond to the two order modes; exactly one
// applies per scheduling run.
type Orderer interface {
	Order(resolved []string) ([]OrderedAction, error)
}

// NewOrderer selects the orderer implementation for the given mode. An
// empty mode defaults to index ordering, matching the behavior when no
// extensions are configured at all.
func NewOrderer(mode OrderMode, catalog *Catalog) (Orderer, error) {
	switch mode {
	case OrderModeIndex, "":
		return &IndexOrderer{catalog: catalog}, nil
	case OrderModeDependency:
		return &DependencyOrderer{catalog: catalog}, nil
	default:
		return nil, fmt.Errorf("unknown order mode [%s]", mode)
	}
}

// IndexOrderer schedules actions by their static execution index: fixed for
// built-ins, explicit in configuration for extensions. The sort is stable,
// so equal-index entries (including duplicate requests of the same action)
// keep their relative order from the resolved request.
type IndexOrderer struct {
	catalog *Catalog
}

// Order sorts the resolved actions ascending by index.
func (o *IndexOrderer) Order(resolved []string) ([]OrderedAction, error) {
	ordered := make([]OrderedAction, 0, len(resolved))
	for _, name := range resolved {
		index, err := o.actionIndex(name)
		if err != nil {
			return nil, err
		}
		ordered = append(ordered, OrderedAction{Name: name, Index: index})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})
	return ordered, nil
}

func (o *IndexOrderer) actionIndex(name string) (int, error) {
	if index, ok := builtinIndices[name]; ok {
		return index, nil
	}
	ext, ok := o.catalog.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("action [%s]: %w", name, ErrUnknownAction)
	}
	if ext.Ordering.Index == nil {
		return 0, fmt.Errorf("extension [%s]: %w", name, ErrMissingPriority)
	}
	return *ext.Ordering.Index, nil
}
