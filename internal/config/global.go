package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "excerpt"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
)

// Environment variables that override file values.
const (
	EnvConfig     = "EXCERPT_CONFIG"
	EnvTokenizer  = "EXCERPT_TOKENIZER"
	EnvHistoryDir = "EXCERPT_HISTORY_DIR"
)

// configCache caches the loaded config.
var configCache *Config

// Path returns the path to the config file.
// EXCERPT_CONFIG wins; otherwise respects XDG_CONFIG_HOME, defaulting to
// ~/.config/excerpt/config.yml.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return ExpandTilde(p)
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the config file over the defaults and applies environment
// overrides. Returns the defaults (not an error) if the file doesn't exist.
func Load() (*Config, error) {
	if configCache != nil {
		return configCache, nil
	}

	cfg, err := LoadFile(Path())
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", Path(), err)
	}

	configCache = cfg
	return cfg, nil
}

// LoadFile reads a config file over the defaults without environment
// overrides or caching.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.History.Dir = ExpandTilde(cfg.History.Dir)
	cfg.Server.LogFile = ExpandTilde(cfg.Server.LogFile)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvTokenizer); v != "" {
		cfg.Tokenizer = v
	}
	if v := os.Getenv(EnvHistoryDir); v != "" {
		cfg.History.Dir = ExpandTilde(v)
	}
}

// ResetCache clears the cached config.
// Useful for testing.
func ResetCache() {
	configCache = nil
}

// Save writes the config to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		return fmt.Errorf("no config path")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	ResetCache()
	return nil
}
