package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hollowoak/cback/pkg/scheduler"
)

// DefaultPath is where Load looks when no --config flag or CBACK_CONFIG
// override is given.
const DefaultPath = "/etc/cback.yml"

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the shape of the configuration. Deeper action-ordering
// problems (unknown dependencies, cycles, missing indices) are the
// scheduler's to report, so a broken ordering setup fails at scheduling
// time with a precise error rather than here with a vague one.
func (c *Config) Validate() error {
	switch c.Extensions.OrderMode {
	case "", string(scheduler.OrderModeIndex), string(scheduler.OrderModeDependency):
	default:
		return fmt.Errorf("extensions.order_mode [%s] is not valid", c.Extensions.OrderMode)
	}
	for i, ext := range c.Extensions.Actions {
		if ext.Name == "" {
			return fmt.Errorf("extensions.actions[%d]: name is required", i)
		}
		if ext.Handler == "" && ext.Command == "" {
			return fmt.Errorf("extension [%s]: either handler or command is required", ext.Name)
		}
		if ext.Handler != "" && ext.Command != "" {
			return fmt.Errorf("extension [%s]: handler and command are mutually exclusive", ext.Name)
		}
	}
	for i, hook := range c.Options.Hooks {
		if hook.Action == "" || hook.Command == "" {
			return fmt.Errorf("options.hooks[%d]: action and command are required", i)
		}
		if hook.Phase != string(scheduler.HookPre) && hook.Phase != string(scheduler.HookPost) {
			return fmt.Errorf("options.hooks[%d]: phase [%s] is not valid", i, hook.Phase)
		}
	}
	for i, peer := range c.Peers {
		if peer.Name == "" {
			return fmt.Errorf("peers[%d]: name is required", i)
		}
	}
	return nil
}

// HandlerID returns the registry identifier an extension's plan items bind
// to. Command-backed extensions register under their own name.
func (e ExtensionConfig) HandlerID() string {
	if e.Handler != "" {
		return e.Handler
	}
	return e.Name
}

// Scheduler assembles the scheduler for this configuration.
func (c *Config) Scheduler() (*scheduler.Scheduler, error) {
	extensions := make([]scheduler.ExtensionSpec, 0, len(c.Extensions.Actions))
	for _, ext := range c.Extensions.Actions {
		spec := scheduler.ExtensionSpec{
			Name:    ext.Name,
			Handler: ext.HandlerID(),
			Ordering: scheduler.OrderingSpec{
				Index: ext.Index,
			},
		}
		if ext.Depends != nil {
			spec.Ordering.Depends = &scheduler.Dependencies{
				Before: ext.Depends.Before,
				After:  ext.Depends.After,
			}
		}
		extensions = append(extensions, spec)
	}
	catalog, err := scheduler.NewCatalog(extensions)
	if err != nil {
		return nil, err
	}

	hooks := make([]scheduler.HookSpec, 0, len(c.Options.Hooks))
	for _, hook := range c.Options.Hooks {
		hooks = append(hooks, scheduler.HookSpec{
			Action:  hook.Action,
			Phase:   scheduler.HookPhase(hook.Phase),
			Command: hook.Command,
		})
	}

	peers := make([]scheduler.RemotePeerSpec, 0, len(c.Peers))
	for _, peer := range c.Peers {
		peers = append(peers, scheduler.RemotePeerSpec{
			Name:           peer.Name,
			Managed:        peer.Managed,
			RemoteUser:     peer.RemoteUser,
			LocalUser:      peer.LocalUser,
			RshCommand:     peer.RshCommand,
			CbackCommand:   peer.CbackCommand,
			ManagedActions: peer.ManagedActions,
		})
	}

	return &scheduler.Scheduler{
		Catalog: catalog,
		Mode:    scheduler.OrderMode(c.Extensions.OrderMode),
		Hooks:   hooks,
		Peers:   peers,
		Defaults: scheduler.GlobalDefaults{
			BackupUser:     c.Options.BackupUser,
			RshCommand:     c.Options.RshCommand,
			CbackCommand:   c.Options.CbackCommand,
			ManagedActions: c.Options.ManagedActions,
		},
	}, nil
}
