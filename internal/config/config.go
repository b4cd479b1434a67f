// Package config handles configuration loading for cascade.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for cascade.
type Config struct {
	Workers   WorkersConfig   `mapstructure:"workers"`
	Memory    MemoryConfig    `mapstructure:"memory"`
	Gate      GateConfig      `mapstructure:"gate"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Output    OutputConfig    `mapstructure:"output"`
}

// WorkersConfig holds worker pool settings.
type WorkersConfig struct {
	// Max bounds concurrent task execution.
	Max int `mapstructure:"max"`
	// Backend selects the worker body: "simulated" or "anthropic".
	Backend string `mapstructure:"backend"`
}

// MemoryConfig holds memory persistence settings.
type MemoryConfig struct {
	// SnapshotPath is where memory is saved between sessions.
	// Empty disables persistence.
	SnapshotPath string `mapstructure:"snapshot_path"`
}

// GateConfig holds permission gate settings.
type GateConfig struct {
	// Mode selects the gate: "terminal", "allow", or "deny".
	Mode string `mapstructure:"mode"`
	// AuditPath is the SQLite audit database location.
	AuditPath string `mapstructure:"audit_path"`
}

// AnthropicConfig holds Anthropic API settings for the anthropic backend.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OutputConfig holds renderer settings.
type OutputConfig struct {
	// Verbose enables per-task event output.
	Verbose bool `mapstructure:"verbose"`
	// DebugLog is the path for the pipeline debug log. Empty disables.
	DebugLog string `mapstructure:"debug_log"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables. Precedence (highest to lowest):
// 1. Environment variables (CASCADE_*, ANTHROPIC_API_KEY)
// 2. Project config (.cascade.yaml in current directory or a parent)
// 3. User config (~/.config/cascade/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("CASCADE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	return cfg, nil
}

// Watch reloads the project config file on change and invokes onChange
// with the fresh configuration. It returns immediately; watching runs in
// the background for the process lifetime. No project config, no watch.
func Watch(onChange func(*Config)) {
	projectConfig := findProjectConfig()
	if projectConfig == "" {
		return
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(projectConfig)
	if err := v.ReadInConfig(); err != nil {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg := &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			return
		}
		cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
		onChange(cfg)
	})
	v.WatchConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("workers.max", 8)
	v.SetDefault("workers.backend", "simulated")

	v.SetDefault("memory.snapshot_path", defaultSnapshotPath())

	v.SetDefault("gate.mode", "terminal")
	v.SetDefault("gate.audit_path", "")

	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")

	v.SetDefault("output.verbose", false)
	v.SetDefault("output.debug_log", "")
}

// getUserConfigDir returns the XDG config directory for cascade.
func getUserConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "cascade")
}

// defaultSnapshotPath returns the default memory snapshot location under
// XDG_DATA_HOME.
func defaultSnapshotPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "cascade", "memory.json")
}

// findProjectConfig walks up from the current directory looking for
// .cascade.yaml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ".cascade.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnv expands ${VAR} references in a value.
func expandEnv(value string) string {
	if strings.Contains(value, "${") {
		return os.ExpandEnv(value)
	}
	return value
}
