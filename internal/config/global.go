// Package config handles the kbm global configuration file and its
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/kbm/config.yml.
// Zero values mean "use the default".
type GlobalConfig struct {
	CorpusDir      string  `yaml:"corpus_dir,omitempty"`
	Seed           int64   `yaml:"seed,omitempty"`
	ItemCount      int     `yaml:"item_count,omitempty"`
	Addr           string  `yaml:"addr,omitempty"`
	LogLevel       string  `yaml:"log_level,omitempty"`
	LogDev         bool    `yaml:"log_dev,omitempty"`
	LayoutTimeout  string  `yaml:"layout_timeout,omitempty"`
	ViewportWidth  int     `yaml:"viewport_width,omitempty"`
	ViewportHeight int     `yaml:"viewport_height,omitempty"`
	RenderRate     float64 `yaml:"render_rate,omitempty"`
	RenderBurst    int     `yaml:"render_burst,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "kbm"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/kbm/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.CorpusDir != "" {
		cfg.CorpusDir = ExpandTilde(cfg.CorpusDir)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// SaveGlobalConfig writes cfg to the global config path and refreshes the cache.
func SaveGlobalConfig(cfg *GlobalConfig) error {
	path := GlobalConfigPath()
	if path == "" {
		return errors.New("cannot determine config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	globalConfigCache = cfg
	return nil
}

// ExpandTilde replaces a leading ~ with the user's home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// HelpfulConfigMessage explains where configuration lives.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`kbm reads its settings from %s.

Tip: point kbm at a corpus directory instead of the built-in sample:
  mkdir -p %s
  echo 'corpus_dir: /path/to/corpus' > %s

Every key can also be set through a KBM_<KEY> environment variable
(for example KBM_ADDR=:9090) or a .env file in the working directory.`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
