package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "KBM_"

// Config is the effective configuration: defaults, then the global config
// file, then KBM_* environment variables.
type Config struct {
	CorpusDir      string        `json:"corpus_dir"`
	Seed           int64         `json:"seed"`
	ItemCount      int           `json:"item_count"`
	Addr           string        `json:"addr"`
	LogLevel       string        `json:"log_level"`
	LogDev         bool          `json:"log_dev"`
	LayoutTimeout  time.Duration `json:"layout_timeout"`
	ViewportWidth  int           `json:"viewport_width"`
	ViewportHeight int           `json:"viewport_height"`
	RenderRate     float64       `json:"render_rate"`
	RenderBurst    int           `json:"render_burst"`
}

// Defaults.
const (
	DefaultSeed           = 42
	DefaultItemCount      = 150
	DefaultAddr           = ":8080"
	DefaultLogLevel       = "info"
	DefaultLayoutTimeout  = 3 * time.Second
	DefaultViewportWidth  = 900
	DefaultViewportHeight = 600
	DefaultRenderRate     = 5
	DefaultRenderBurst    = 10
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Seed:           DefaultSeed,
		ItemCount:      DefaultItemCount,
		Addr:           DefaultAddr,
		LogLevel:       DefaultLogLevel,
		LayoutTimeout:  DefaultLayoutTimeout,
		ViewportWidth:  DefaultViewportWidth,
		ViewportHeight: DefaultViewportHeight,
		RenderRate:     DefaultRenderRate,
		RenderBurst:    DefaultRenderBurst,
	}
}

// ErrUnknownKey is returned for a key that is not a config setting.
var ErrUnknownKey = errors.New("unknown config key")

// Keys lists the settable keys in display order.
var Keys = []string{
	"corpus_dir", "seed", "item_count", "addr", "log_level", "log_dev",
	"layout_timeout", "viewport_width", "viewport_height", "render_rate", "render_burst",
}

// LoadDotEnv loads a .env file from the working directory if present.
// Variables already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load resolves the effective configuration.
func Load() (Config, error) {
	cfg := Default()

	g, err := LoadGlobalConfig()
	if err != nil {
		return cfg, err
	}
	if err := cfg.merge(g); err != nil {
		return cfg, err
	}

	for _, key := range Keys {
		v := os.Getenv(EnvName(key))
		if v == "" {
			continue
		}
		if err := cfg.set(key, v); err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvName(key), err)
		}
	}
	return cfg, nil
}

func (c *Config) merge(g *GlobalConfig) error {
	if g.CorpusDir != "" {
		c.CorpusDir = g.CorpusDir
	}
	if g.Seed != 0 {
		c.Seed = g.Seed
	}
	if g.ItemCount > 0 {
		c.ItemCount = g.ItemCount
	}
	if g.Addr != "" {
		c.Addr = g.Addr
	}
	if g.LogLevel != "" {
		c.LogLevel = g.LogLevel
	}
	if g.LogDev {
		c.LogDev = true
	}
	if g.LayoutTimeout != "" {
		d, err := time.ParseDuration(g.LayoutTimeout)
		if err != nil {
			return fmt.Errorf("layout_timeout: %w", err)
		}
		c.LayoutTimeout = d
	}
	if g.ViewportWidth > 0 {
		c.ViewportWidth = g.ViewportWidth
	}
	if g.ViewportHeight > 0 {
		c.ViewportHeight = g.ViewportHeight
	}
	if g.RenderRate > 0 {
		c.RenderRate = g.RenderRate
	}
	if g.RenderBurst > 0 {
		c.RenderBurst = g.RenderBurst
	}
	return nil
}

func (c *Config) set(key, value string) error {
	var err error
	switch key {
	case "corpus_dir":
		c.CorpusDir = ExpandTilde(value)
	case "seed":
		c.Seed, err = strconv.ParseInt(value, 10, 64)
	case "item_count":
		c.ItemCount, err = strconv.Atoi(value)
	case "addr":
		c.Addr = value
	case "log_level":
		c.LogLevel = value
	case "log_dev":
		c.LogDev, err = strconv.ParseBool(value)
	case "layout_timeout":
		c.LayoutTimeout, err = time.ParseDuration(value)
	case "viewport_width":
		c.ViewportWidth, err = strconv.Atoi(value)
	case "viewport_height":
		c.ViewportHeight, err = strconv.Atoi(value)
	case "render_rate":
		c.RenderRate, err = strconv.ParseFloat(value, 64)
	case "render_burst":
		c.RenderBurst, err = strconv.Atoi(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return err
}

// Get returns the string form of a setting.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "corpus_dir":
		return c.CorpusDir, nil
	case "seed":
		return strconv.FormatInt(c.Seed, 10), nil
	case "item_count":
		return strconv.Itoa(c.ItemCount), nil
	case "addr":
		return c.Addr, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_dev":
		return strconv.FormatBool(c.LogDev), nil
	case "layout_timeout":
		return c.LayoutTimeout.String(), nil
	case "viewport_width":
		return strconv.Itoa(c.ViewportWidth), nil
	case "viewport_height":
		return strconv.Itoa(c.ViewportHeight), nil
	case "render_rate":
		return strconv.FormatFloat(c.RenderRate, 'g', -1, 64), nil
	case "render_burst":
		return strconv.Itoa(c.RenderBurst), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Values returns every setting keyed by name.
func (c Config) Values() map[string]string {
	out := make(map[string]string, len(Keys))
	for _, k := range Keys {
		out[k], _ = c.Get(k)
	}
	return out
}

// SetGlobalValue validates value for key and persists it to the global
// config file.
func SetGlobalValue(key, value string) error {
	var probe Config
	if err := probe.set(key, value); err != nil {
		return err
	}

	g, err := LoadGlobalConfig()
	if err != nil {
		return err
	}
	next := *g
	switch key {
	case "corpus_dir":
		next.CorpusDir = probe.CorpusDir
	case "seed":
		next.Seed = probe.Seed
	case "item_count":
		next.ItemCount = probe.ItemCount
	case "addr":
		next.Addr = probe.Addr
	case "log_level":
		next.LogLevel = probe.LogLevel
	case "log_dev":
		next.LogDev = probe.LogDev
	case "layout_timeout":
		next.LayoutTimeout = probe.LayoutTimeout.String()
	case "viewport_width":
		next.ViewportWidth = probe.ViewportWidth
	case "viewport_height":
		next.ViewportHeight = probe.ViewportHeight
	case "render_rate":
		next.RenderRate = probe.RenderRate
	case "render_burst":
		next.RenderBurst = probe.RenderBurst
	}
	return SaveGlobalConfig(&next)
}

// EnvName returns the environment variable overriding key.
func EnvName(key string) string {
	return EnvPrefix + toUpperSnake(key)
}

// toUpperSnake converts a key to UPPER_SNAKE_CASE for env var lookup.
func toUpperSnake(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 32)
		case r == '-':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SortedKeys returns the keys of m in sorted order.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
