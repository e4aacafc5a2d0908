package config

// Config models the cback.yml configuration file. Only the pieces the
// scheduler and dispatcher consume live here; the collect/stage/store/purge
// subsystems parse their own sections out of the same file.
type Config struct {
	Options    OptionsConfig    `yaml:"options" json:"options"`
	Extensions ExtensionsConfig `yaml:"extensions,omitempty" json:"extensions,omitempty"`
	Peers      []PeerConfig     `yaml:"peers,omitempty" json:"peers,omitempty"`

	// PluginsDir is scanned for yaegi extension handler plugins.
	PluginsDir string `yaml:"plugins_dir,omitempty" json:"plugins_dir,omitempty"`
}

// OptionsConfig carries the global defaults and the hook table.
type OptionsConfig struct {
	BackupUser     string       `yaml:"backup_user,omitempty" json:"backup_user,omitempty"`
	RshCommand     string       `yaml:"rsh_command,omitempty" json:"rsh_command,omitempty"`
	CbackCommand   string       `yaml:"cback_command,omitempty" json:"cback_command,omitempty"`
	ManagedActions []string     `yaml:"managed_actions,omitempty" json:"managed_actions,omitempty"`
	Hooks          []HookConfig `yaml:"hooks,omitempty" json:"hooks,omitempty"`
}

// HookConfig is one pre- or post-action hook command.
type HookConfig struct {
	Action  string `yaml:"action" json:"action"`
	Phase   string `yaml:"phase" json:"phase"` // "pre" or "post"
	Command string `yaml:"command" json:"command"`
}

// ExtensionsConfig declares the pluggable actions and how to order them.
type ExtensionsConfig struct {
	// OrderMode is "index" (explicit numeric indices) or "dependency"
	// (before/after constraints). Empty means "index".
	OrderMode string            `yaml:"order_mode,omitempty" json:"order_mode,omitempty"`
	Actions   []ExtensionConfig `yaml:"actions,omitempty" json:"actions,omitempty"`
}

// ExtensionConfig is one extended action. Handler identifies the callable
// in the dispatcher's registry; when Command is set instead, a shell-backed
// handler is registered under the extension's name automatically.
type ExtensionConfig struct {
	Name    string      `yaml:"name" json:"name"`
	Handler string      `yaml:"handler,omitempty" json:"handler,omitempty"`
	Command string      `yaml:"command,omitempty" json:"command,omitempty"`
	Index   *int        `yaml:"index,omitempty" json:"index,omitempty"`
	Depends *DependsRef `yaml:"depends,omitempty" json:"depends,omitempty"`
}

// DependsRef names the actions an extension runs before and after.
type DependsRef struct {
	Before []string `yaml:"before,omitempty" json:"before,omitempty"`
	After  []string `yaml:"after,omitempty" json:"after,omitempty"`
}

// PeerConfig is one remote peer entry. Unset fields fall back to the
// options section, independently per field.
type PeerConfig struct {
	Name           string   `yaml:"name" json:"name"`
	Managed        bool     `yaml:"managed,omitempty" json:"managed,omitempty"`
	RemoteUser     string   `yaml:"remote_user,omitempty" json:"remote_user,omitempty"`
	LocalUser      string   `yaml:"local_user,omitempty" json:"local_user,omitempty"`
	RshCommand     string   `yaml:"rsh_command,omitempty" json:"rsh_command,omitempty"`
	CbackCommand   string   `yaml:"cback_command,omitempty" json:"cback_command,omitempty"`
	ManagedActions []string `yaml:"managed_actions,omitempty" json:"managed_actions,omitempty"`
}
