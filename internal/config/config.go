package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/Johannes-Berggren/gitpeek/internal/errors"
)

// Config holds the application configuration
type Config struct {
	Directory          string        `yaml:"directory"`
	SummaryLength      int           `yaml:"summary_length"`
	Debug              bool          `yaml:"debug"`
	CommitLimit        int           `yaml:"commit_limit"`
	RefreshInterval    time.Duration `yaml:"refresh_interval"`
	SlowFetchThreshold time.Duration `yaml:"slow_fetch_threshold"`
	LogFile            string        `yaml:"log_file"`
	Theme              ThemeName     `yaml:"theme"`
}

// ThemeName selects one of the built-in color schemes.
type ThemeName string

const (
	ThemeDefault ThemeName = "default"
	ThemeMono    ThemeName = "mono"
)

// Theme defines the color scheme for the application
type Theme struct {
	Title      lipgloss.Color
	Border     lipgloss.Color
	Focused    lipgloss.Color
	Selected   lipgloss.Color
	Current    lipgloss.Color
	Hash       lipgloss.Color
	Author     lipgloss.Color
	Muted      lipgloss.Color
	Added      lipgloss.Color
	Deleted    lipgloss.Color
	Modified   lipgloss.Color
	Error      lipgloss.Color
	Refreshing lipgloss.Color
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Directory:          ".",
		SummaryLength:      72,
		CommitLimit:        500,
		SlowFetchThreshold: 2 * time.Second,
		Theme:              ThemeDefault,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/gitpeek/config.yaml (or the platform
// equivalent), or "" when no config directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gitpeek", "config.yaml")
}

// Load reads path on top of the defaults. A missing file is not an error
// unless required is true.
func Load(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, errors.E(errors.Op("config.Load"), errors.KindConfig, fmt.Sprintf("reading %s", path), err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.E(errors.Op("config.Load"), errors.KindConfig, fmt.Sprintf("parsing %s", path), err)
	}
	return cfg, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	op := errors.Op("config.Validate")
	switch {
	case c.Directory == "":
		return errors.E(op, errors.KindConfig, "directory must not be empty")
	case c.SummaryLength < 0:
		return errors.E(op, errors.KindConfig, "summary length must not be negative")
	case c.CommitLimit < 0:
		return errors.E(op, errors.KindConfig, "commit limit must not be negative")
	case c.RefreshInterval < 0:
		return errors.E(op, errors.KindConfig, "refresh interval must not be negative")
	case c.SlowFetchThreshold < 0:
		return errors.E(op, errors.KindConfig, "slow fetch threshold must not be negative")
	}
	switch c.Theme {
	case ThemeDefault, ThemeMono, "":
	default:
		return errors.E(op, errors.KindConfig, fmt.Sprintf("unknown theme %q", c.Theme))
	}
	return nil
}

// ResolvedTheme returns the colors for c.Theme.
func (c *Config) ResolvedTheme() Theme {
	return ThemeFor(c.Theme)
}

// ThemeFor resolves a theme name to concrete colors. Unknown names fall back
// to the default theme.
func ThemeFor(name ThemeName) Theme {
	if name == ThemeMono {
		return Theme{
			Title:      lipgloss.Color("15"),
			Border:     lipgloss.Color("240"),
			Focused:    lipgloss.Color("15"),
			Selected:   lipgloss.Color("238"),
			Current:    lipgloss.Color("15"),
			Hash:       lipgloss.Color("250"),
			Author:     lipgloss.Color("250"),
			Muted:      lipgloss.Color("244"),
			Added:      lipgloss.Color("15"),
			Deleted:    lipgloss.Color("15"),
			Modified:   lipgloss.Color("15"),
			Error:      lipgloss.Color("15"),
			Refreshing: lipgloss.Color("250"),
		}
	}
	return Theme{
		Title:      lipgloss.Color("170"),
		Border:     lipgloss.Color("238"),
		Focused:    lipgloss.Color("cyan"),
		Selected:   lipgloss.Color("238"),
		Current:    lipgloss.Color("green"),
		Hash:       lipgloss.Color("yellow"),
		Author:     lipgloss.Color("cyan"),
		Muted:      lipgloss.Color("244"),
		Added:      lipgloss.Color("34"),
		Deleted:    lipgloss.Color("196"),
		Modified:   lipgloss.Color("white"),
		Error:      lipgloss.Color("196"),
		Refreshing: lipgloss.Color("214"),
	}
}
