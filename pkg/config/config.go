// Package config loads termfolio settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/kraitsura/termfolio/pkg/wm"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".termfolio.yml"

// EnvPrefix marks environment overrides, e.g. TERMFOLIO_THEME=light.
const EnvPrefix = "TERMFOLIO_"

// Config mirrors .termfolio.yml.
type Config struct {
	CompactBreakpoint   int           `yaml:"compact_breakpoint" koanf:"compact_breakpoint"`
	Mode                string        `yaml:"mode" koanf:"mode"`
	ResizeDebounce      time.Duration `yaml:"resize_debounce" koanf:"resize_debounce"`
	HighlightDuration   time.Duration `yaml:"highlight_duration" koanf:"highlight_duration"`
	TooltipDuration     time.Duration `yaml:"tooltip_duration" koanf:"tooltip_duration"`
	CenterDelay         time.Duration `yaml:"center_delay" koanf:"center_delay"`
	SwipeThreshold      int           `yaml:"swipe_threshold" koanf:"swipe_threshold"`
	VisibilityThreshold float64       `yaml:"visibility_threshold" koanf:"visibility_threshold"`
	FloorInset          int           `yaml:"floor_inset" koanf:"floor_inset"`
	SideInset           int           `yaml:"side_inset" koanf:"side_inset"`
	PreviewTimeout      time.Duration `yaml:"preview_timeout" koanf:"preview_timeout"`
	WatchDebounce       time.Duration `yaml:"watch_debounce" koanf:"watch_debounce"`
	Theme               string        `yaml:"theme" koanf:"theme"`
	MarkdownStyle       string        `yaml:"markdown_style" koanf:"markdown_style"`
	LogFile             string        `yaml:"log_file" koanf:"log_file"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	opts := wm.DefaultOptions()
	return &Config{
		CompactBreakpoint:   opts.CompactBreakpoint,
		ResizeDebounce:      100 * time.Millisecond,
		HighlightDuration:   2 * time.Second,
		TooltipDuration:     3 * time.Second,
		CenterDelay:         100 * time.Millisecond,
		SwipeThreshold:      opts.SwipeThreshold,
		VisibilityThreshold: opts.VisibilityThreshold,
		PreviewTimeout:      2 * time.Second,
		WatchDebounce:       250 * time.Millisecond,
		Theme:               "dark",
		MarkdownStyle:       "dark",
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (TERMFOLIO_*). A missing file is not an
// error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validThemes = map[string]bool{"dark": true, "light": true}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.CompactBreakpoint <= 0 {
		return fmt.Errorf("compact_breakpoint must be positive")
	}
	if c.Mode != "" {
		if _, ok := wm.ParseMode(c.Mode); !ok {
			return fmt.Errorf("invalid mode %q: must be desktop or compact", c.Mode)
		}
	}
	for name, d := range map[string]time.Duration{
		"resize_debounce":    c.ResizeDebounce,
		"highlight_duration": c.HighlightDuration,
		"tooltip_duration":   c.TooltipDuration,
		"center_delay":       c.CenterDelay,
		"preview_timeout":    c.PreviewTimeout,
		"watch_debounce":     c.WatchDebounce,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if c.SwipeThreshold <= 0 {
		return fmt.Errorf("swipe_threshold must be positive")
	}
	if c.VisibilityThreshold <= 0 || c.VisibilityThreshold > 1 {
		return fmt.Errorf("visibility_threshold must be in (0, 1]")
	}
	if c.FloorInset < 0 || c.SideInset < 0 {
		return fmt.Errorf("insets must be non-negative")
	}
	if !validThemes[c.Theme] {
		return fmt.Errorf("invalid theme %q: must be dark or light", c.Theme)
	}
	return nil
}

// Options converts the settings into controller tuning.
func (c *Config) Options() wm.Options {
	opts := wm.DefaultOptions()
	opts.CompactBreakpoint = c.CompactBreakpoint
	opts.ForceMode = c.Mode
	opts.SwipeThreshold = c.SwipeThreshold
	opts.VisibilityThreshold = c.VisibilityThreshold
	opts.Insets = wm.Insets{Side: c.SideInset, Floor: c.FloorInset}
	return opts
}
