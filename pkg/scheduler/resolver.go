package scheduler

import "fmt"

// ResolveActions validates the requested action names against the catalog
// and expands the "all" pseudo-action. The returned list keeps the request's
// order and duplicates; ordering is the orderer's job, not the resolver's.
//
// The singleton actions ("all", "rebuild", "validate", "initialize") may not
// be combined with any other action, including themselves.
func ResolveActions(requested []string, catalog *Catalog) ([]string, error) {
	if len(requested) == 0 {
		return nil, ErrEmptyRequest
	}
	for _, name := range requested {
		if name == ActionAll {
			continue
		}
		if !catalog.Knows(name) {
			return nil, fmt.Errorf("action [%s]: %w", name, ErrUnknownAction)
		}
	}
	for _, singleton := range singletonActions {
		if containsAction(requested, singleton) && len(requested) != 1 {
			return nil, fmt.Errorf("action [%s]: %w", singleton, ErrSingletonConflict)
		}
	}
	if len(requested) == 1 && requested[0] == ActionAll {
		expanded := make([]string, len(PipelineActions))
		copy(expanded, PipelineActions)
		return expanded, nil
	}
	resolved := make([]string, len(requested))
	copy(resolved, requested)
	return resolved, nil
}

func containsAction(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
