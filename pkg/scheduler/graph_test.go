package scheduler

import (
	"errors"
	"reflect"
	"testing"
)

func dependsOn(before, after []string) OrderingSpec {
	return OrderingSpec{Depends: &Dependencies{Before: before, After: after}}
}

func TestDependencyOrdererLinearChain(t *testing.T) {
	// Five extensions forming a strict chain around the four pipeline
	// stages must interleave exactly.
	catalog := testCatalog(t,
		ExtensionSpec{Name: "one", Handler: "ext/one", Ordering: dependsOn([]string{"collect"}, nil)},
		ExtensionSpec{Name: "two", Handler: "ext/two", Ordering: dependsOn([]string{"stage"}, []string{"collect"})},
		ExtensionSpec{Name: "three", Handler: "ext/three", Ordering: dependsOn([]string{"store"}, []string{"stage"})},
		ExtensionSpec{Name: "four", Handler: "ext/four", Ordering: dependsOn([]string{"purge"}, []string{"store"})},
		ExtensionSpec{Name: "five", Handler: "ext/five", Ordering: dependsOn(nil, []string{"purge"})},
	)
	orderer := &DependencyOrderer{catalog: catalog}

	got := orderNames(t, orderer, []string{
		"one", "two", "three", "four", "five", "collect", "stage", "store", "purge",
	})
	want := []string{"one", "collect", "two", "stage", "three", "store", "four", "purge", "five"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDependencyOrdererProjectsOmittedActions(t *testing.T) {
	// "one" runs after collect. Even when collect itself is not requested,
	// the remaining relative order must hold: one still precedes stage.
	catalog := testCatalog(t,
		ExtensionSpec{Name: "one", Handler: "ext/one", Ordering: dependsOn(nil, []string{"collect"})},
	)
	orderer := &DependencyOrderer{catalog: catalog}

	got := orderNames(t, orderer, []string{"stage", "one"})
	want := []string{"one", "stage"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDependencyOrdererKeepsDuplicates(t *testing.T) {
	catalog := testCatalog(t,
		ExtensionSpec{Name: "one", Handler: "ext/one", Ordering: dependsOn([]string{"collect"}, nil)},
	)
	orderer := &DependencyOrderer{catalog: catalog}

	got := orderNames(t, orderer, []string{"collect", "one", "collect"})
	want := []string{"one", "collect", "collect"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDependencyOrdererUnconstrainedTieBreak(t *testing.T) {
	// Extensions with no constraints at all order by declaration, ahead of
	// the pipeline stages they are unconstrained against.
	catalog := testCatalog(t,
		ExtensionSpec{Name: "beta", Handler: "ext/beta", Ordering: OrderingSpec{}},
		ExtensionSpec{Name: "alpha", Handler: "ext/alpha", Ordering: OrderingSpec{}},
	)
	orderer := &DependencyOrderer{catalog: catalog}

	got := orderNames(t, orderer, []string{"alpha", "collect", "beta"})
	want := []string{"beta", "alpha", "collect"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDependencyOrdererCycle(t *testing.T) {
	// five before one, one before purge, five after purge: a loop.
	catalog := testCatalog(t,
		ExtensionSpec{Name: "one", Handler: "ext/one", Ordering: dependsOn([]string{"purge"}, nil)},
		ExtensionSpec{Name: "five", Handler: "ext/five", Ordering: dependsOn([]string{"one"}, []string{"purge"})},
	)
	orderer := &DependencyOrderer{catalog: catalog}

	_, err := orderer.Order([]string{"one", "five", "purge"})
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("Expected ErrCyclicDependency, got %v", err)
	}
}

func TestDependencyOrdererUnknownReference(t *testing.T) {
	tests := []struct {
		name string
		spec OrderingSpec
	}{
		{name: "unknown before", spec: dependsOn([]string{"nonesuch"}, nil)},
		{name: "unknown after", spec: dependsOn(nil, []string{"nonesuch"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := testCatalog(t,
				ExtensionSpec{Name: "one", Handler: "ext/one", Ordering: tt.spec},
			)
			orderer := &DependencyOrderer{catalog: catalog}
			_, err := orderer.Order([]string{"one"})
			if !errors.Is(err, ErrUnknownDependency) {
				t.Fatalf("Expected ErrUnknownDependency, got %v", err)
			}
		})
	}
}

func TestDependencyOrdererConstraintOnUnrequestedUniverse(t *testing.T) {
	// Constraints may reference any universe member, including other
	// extensions that are never requested.
	catalog := testCatalog(t,
		ExtensionSpec{Name: "warm", Handler: "ext/warm", Ordering: OrderingSpec{}},
		ExtensionSpec{Name: "sweep", Handler: "ext/sweep", Ordering: dependsOn(nil, []string{"warm", "purge"})},
	)
	orderer := &DependencyOrderer{catalog: catalog}

	got := orderNames(t, orderer, []string{"sweep", "collect", "purge"})
	want := []string{"collect", "purge", "sweep"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDependencyOrdererAssignsTopologicalIndices(t *testing.T) {
	catalog := testCatalog(t,
		ExtensionSpec{Name: "one", Handler: "ext/one", Ordering: dependsOn([]string{"collect"}, nil)},
	)
	orderer := &DependencyOrderer{catalog: catalog}

	ordered, err := orderer.Order([]string{"collect", "one"})
	if err != nil {
		t.Fatalf("Order failed: %v", err)
	}
	if len(ordered) != 2 {
		t.Fatalf("Expected 2 actions, got %d", len(ordered))
	}
	if ordered[0].Index >= ordered[1].Index {
		t.Errorf("Indices must follow the topological order: %+v", ordered)
	}
}
