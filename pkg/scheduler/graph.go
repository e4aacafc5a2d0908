package scheduler

import (
	"fmt"
	"strings"
)

// DependencyOrderer schedules actions by topologically sorting the full
// universe of known actions (built-ins plus declared extensions) over the
// extensions' before/after constraints, then projecting the requested
// subset onto that order. Ordering over the whole universe rather than the
// request is what keeps the relative order correct when a constrained
// action is not itself requested.
type DependencyOrderer struct {
	catalog *Catalog
}

// node is one vertex of the action universe.
type node struct {
	name string

	// extension is true for declared extensions; ties among ready
	// extensions break by declaration order, ties among ready built-ins
	// by baseline index, and ready extensions sort ahead of ready
	// built-ins. This tie-break is a documented assumption, not an
	// observable requirement.
	extension bool
	rank      int
}

// Order computes one topological order of the universe and emits the
// resolved request's occurrences in that order.
func (o *DependencyOrderer) Order(resolved []string) ([]OrderedAction, error) {
	universe, edges, err := o.buildGraph()
	if err != nil {
		return nil, err
	}

	topo, err := sortUniverse(universe, edges)
	if err != nil {
		return nil, err
	}

	// Index positions follow the topological order, starting at one.
	position := make(map[string]int, len(topo))
	for i, name := range topo {
		position[name] = i + 1
	}

	occurrences := make(map[string]int, len(resolved))
	for _, name := range resolved {
		occurrences[name]++
	}

	ordered := make([]OrderedAction, 0, len(resolved))
	for _, name := range topo {
		for n := 0; n < occurrences[name]; n++ {
			ordered = append(ordered, OrderedAction{Name: name, Index: position[name]})
		}
	}
	return ordered, nil
}

// buildGraph assembles the universe and the constraint edges. Built-ins
// contribute no edges of their own; their baseline order only breaks ties.
func (o *DependencyOrderer) buildGraph() ([]*node, map[string][]string, error) {
	universe := []*node{
		{name: ActionRebuild, rank: RebuildIndex},
		{name: ActionValidate, rank: ValidateIndex},
		{name: ActionInitialize, rank: InitializeIndex},
		{name: ActionCollect, rank: CollectIndex},
		{name: ActionStage, rank: StageIndex},
		{name: ActionStore, rank: StoreIndex},
		{name: ActionPurge, rank: PurgeIndex},
	}
	for i, ext := range o.catalog.Extensions() {
		universe = append(universe, &node{name: ext.Name, extension: true, rank: i})
	}

	known := make(map[string]bool, len(universe))
	for _, n := range universe {
		known[n.name] = true
	}

	edges := make(map[string][]string, len(universe))
	for _, ext := range o.catalog.Extensions() {
		if ext.Ordering.Depends == nil {
			continue
		}
		for _, before := range ext.Ordering.Depends.Before {
			if !known[before] {
				return nil, nil, fmt.Errorf("dependency [%s] on extension [%s]: %w", before, ext.Name, ErrUnknownDependency)
			}
			edges[ext.Name] = append(edges[ext.Name], before)
		}
		for _, after := range ext.Ordering.Depends.After {
			if !known[after] {
				return nil, nil, fmt.Errorf("dependency [%s] on extension [%s]: %w", after, ext.Name, ErrUnknownDependency)
			}
			edges[after] = append(edges[after], ext.Name)
		}
	}
	return universe, edges, nil
}

// sortUniverse runs Kahn's algorithm over the universe, draining ready
// vertices in tie-break order and failing when a cycle leaves vertices
// undrained.
func sortUniverse(universe []*node, edges map[string][]string) ([]string, error) {
	byName := make(map[string]*node, len(universe))
	indegree := make(map[string]int, len(universe))
	for _, n := range universe {
		byName[n.name] = n
		indegree[n.name] = 0
	}
	for _, targets := range edges {
		for _, target := range targets {
			indegree[target]++
		}
	}

	var ready []*node
	for _, n := range universe {
		if indegree[n.name] == 0 {
			ready = append(ready, n)
		}
	}

	topo := make([]string, 0, len(universe))
	for len(ready) > 0 {
		next := 0
		for i := 1; i < len(ready); i++ {
			if readyBefore(ready[i], ready[next]) {
				next = i
			}
		}
		n := ready[next]
		ready = append(ready[:next], ready[next+1:]...)
		topo = append(topo, n.name)

		for _, target := range edges[n.name] {
			indegree[target]--
			if indegree[target] == 0 {
				ready = append(ready, byName[target])
			}
		}
	}

	if len(topo) != len(universe) {
		var stuck []string
		for _, n := range universe {
			if indegree[n.name] > 0 {
				stuck = append(stuck, n.name)
			}
		}
		return nil, fmt.Errorf("%w (check %s for loops)", ErrCyclicDependency, strings.Join(stuck, ", "))
	}
	return topo, nil
}

// readyBefore is the tie-break among simultaneously ready vertices:
// extensions in declaration order ahead of built-ins in baseline order.
func readyBefore(a, b *node) bool {
	if a.extension != b.extension {
		return a.extension
	}
	return a.rank < b.rank
}
