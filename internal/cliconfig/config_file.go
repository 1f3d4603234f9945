package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config but uses strings for durations to make TOML and
// YAML friendly.
type FileConfig struct {
	WebhookURL   string `toml:"webhook_url" yaml:"webhook_url"`
	IPLookupURL  string `toml:"ip_lookup_url" yaml:"ip_lookup_url"`
	GeoLookupURL string `toml:"geo_lookup_url" yaml:"geo_lookup_url"`
	Username     string `toml:"username" yaml:"username"`
	AvatarURL    string `toml:"avatar_url" yaml:"avatar_url"`
	Title        string `toml:"title" yaml:"title"`
	Footer       string `toml:"footer" yaml:"footer"`
	Color        *int   `toml:"color" yaml:"color"`
	Label        string `toml:"label" yaml:"label"`
	Iface        string `toml:"iface" yaml:"iface"`
	HTTPTimeout  string `toml:"http_timeout" yaml:"http_timeout"`
	Interval     string `toml:"interval" yaml:"interval"`
	MinGap       string `toml:"min_gap" yaml:"min_gap"`
	Watch        *bool  `toml:"watch" yaml:"watch"`
	DryRun       *bool  `toml:"dry_run" yaml:"dry_run"`
	Debug        *bool  `toml:"debug" yaml:"debug"`
}

// LoadFileConfig reads and parses a config file from the given path.
// Files ending in .yaml or .yml are YAML; everything else is TOML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		if err := toml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse toml: %w", err)
		}
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.devicereport/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".devicereport", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("webhook-url", fc.WebhookURL, &cfg.WebhookURL)
	s.setString("ip-lookup-url", fc.IPLookupURL, &cfg.IPLookupURL)
	s.setString("geo-lookup-url", fc.GeoLookupURL, &cfg.GeoLookupURL)
	s.setString("username", fc.Username, &cfg.Username)
	s.setString("avatar-url", fc.AvatarURL, &cfg.AvatarURL)
	s.setString("title", fc.Title, &cfg.Title)
	s.setString("footer", fc.Footer, &cfg.Footer)
	s.setString("label", fc.Label, &cfg.Label)
	s.setString("iface", fc.Iface, &cfg.Iface)

	s.setInt("color", fc.Color, &cfg.Color)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("interval", fc.Interval, &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("min-gap", fc.MinGap, &cfg.MinGap); err != nil {
		return err
	}

	s.setBool("watch", fc.Watch, &cfg.Watch)
	s.setBool("dry-run", fc.DryRun, &cfg.DryRun)
	s.setBool("debug", fc.Debug, &cfg.Debug)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
