package extension

// Config holds the extension configuration. Fields can be set
// programmatically via ExtOption functions or loaded from YAML
// configuration files (under "extensions.leash" or "leash" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{}
}
