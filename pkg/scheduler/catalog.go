package scheduler

import "fmt"

// OrderMode selects which ordering strategy a scheduling run uses.
type OrderMode string

const (
	// OrderModeIndex schedules actions by explicit numeric index.
	OrderModeIndex OrderMode = "index"

	// OrderModeDependency schedules actions by topologically sorting
	// their before/after constraints.
	OrderModeDependency OrderMode = "dependency"
)

// Dependencies names the actions an extension must run before and after.
type Dependencies struct {
	Before []string
	After  []string
}

// OrderingSpec is a tagged variant: an extension carries either an explicit
// execution index or a set of dependency constraints. Which one applies is
// decided per run by the catalog's order mode, not per extension.
type OrderingSpec struct {
	Index   *int
	Depends *Dependencies
}

// ExtensionSpec describes a single pluggable action from configuration.
// The handler is an opaque identifier resolved by the dispatcher's
// registry; the scheduler never calls it.
type ExtensionSpec struct {
	Name     string
	Handler  string
	Ordering OrderingSpec
}

// Catalog holds the extended actions declared in configuration, in
// declaration order. The zero value is a catalog with no extensions.
// A catalog is immutable for the duration of a scheduling run.
type Catalog struct {
	extensions []ExtensionSpec
	byName     map[string]int
}

// NewCatalog builds a catalog from the configured extensions. Duplicate
// extension names and collisions with built-in names are rejected.
func NewCatalog(extensions []ExtensionSpec) (*Catalog, error) {
	c := &Catalog{
		extensions: extensions,
		byName:     make(map[string]int, len(extensions)),
	}
	for i, ext := range extensions {
		if ext.Name == "" {
			return nil, fmt.Errorf("extension %d has no name", i)
		}
		if IsBuiltin(ext.Name) || ext.Name == ActionAll {
			return nil, fmt.Errorf("extension name [%s] shadows a built-in action", ext.Name)
		}
		if _, dup := c.byName[ext.Name]; dup {
			return nil, fmt.Errorf("extension name [%s] is declared twice", ext.Name)
		}
		c.byName[ext.Name] = i
	}
	return c, nil
}

// Extensions returns the declared extensions in declaration order.
func (c *Catalog) Extensions() []ExtensionSpec {
	if c == nil {
		return nil
	}
	return c.extensions
}

// Lookup returns the extension with the given name, if declared.
func (c *Catalog) Lookup(name string) (ExtensionSpec, bool) {
	if c == nil {
		return ExtensionSpec{}, false
	}
	i, ok := c.byName[name]
	if !ok {
		return ExtensionSpec{}, false
	}
	return c.extensions[i], true
}

// Knows reports whether name is a built-in action or a declared extension.
func (c *Catalog) Knows(name string) bool {
	if IsBuiltin(name) {
		return true
	}
	_, ok := c.Lookup(name)
	return ok
}
