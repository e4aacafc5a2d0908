package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Extension handler plugins are plain .go files evaluated with yaegi. Each
// file must declare
//
//	func Handlers() map[string]func(action string) error
//
// mapping handler identifiers to callables. The returned handlers are
// registered in the dispatcher's registry, which is how third parties ship
// extended actions without relinking the binary.
const handlersFuncName = "Handlers"

// HandlerFunc matches the dispatcher's handler signature.
type HandlerFunc func(action string) error

// LoadDir evaluates every .go file in dir and collects the handlers they
// declare. A missing directory is not an error; a plugins_dir that exists
// but declares nothing is.
func LoadDir(dir string) (map[string]HandlerFunc, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("plugin: read %s: %w", trimmed, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".go" {
			continue
		}
		paths = append(paths, filepath.Join(trimmed, entry.Name()))
	}
	sort.Strings(paths)

	handlers := make(map[string]HandlerFunc)
	for _, path := range paths {
		fileHandlers, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		for id, fn := range fileHandlers {
			if _, dup := handlers[id]; dup {
				return nil, fmt.Errorf("plugin: handler [%s] is declared by more than one plugin", id)
			}
			handlers[id] = fn
		}
	}
	if len(paths) > 0 && len(handlers) == 0 {
		return nil, fmt.Errorf("plugin: %s declares no handlers", trimmed)
	}
	return handlers, nil
}

func loadFile(path string) (map[string]HandlerFunc, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("plugin: stdlib symbols: %w", err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("plugin: interpret %s: %w", path, err)
	}
	value, err := i.Eval(handlersFuncName)
	if err != nil {
		return nil, fmt.Errorf("plugin: %s must define %s() map[string]func(string) error: %w", path, handlersFuncName, err)
	}
	return invokeHandlersFunc(path, value)
}

func invokeHandlersFunc(path string, value reflect.Value) (map[string]HandlerFunc, error) {
	if !value.IsValid() || value.Kind() != reflect.Func {
		return nil, fmt.Errorf("plugin: %s: %s is not a function", path, handlersFuncName)
	}
	results := value.Call(nil)
	if len(results) != 1 {
		return nil, fmt.Errorf("plugin: %s: %s must return a single map", path, handlersFuncName)
	}

	declared, ok := results[0].Interface().(map[string]func(string) error)
	if !ok {
		return nil, fmt.Errorf("plugin: %s: %s must return map[string]func(string) error", path, handlersFuncName)
	}
	handlers := make(map[string]HandlerFunc, len(declared))
	for id, fn := range declared {
		if strings.TrimSpace(id) == "" || fn == nil {
			return nil, fmt.Errorf("plugin: %s declares an empty handler entry", path)
		}
		handlers[id] = HandlerFunc(fn)
	}
	return handlers, nil
}
