package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "DEVICEREPORT_"

// ApplyEnvConfig applies configuration from environment variables (DEVICEREPORT_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	return applyEnv(cfg, changed, os.Getenv)
}

func applyEnv(cfg *Config, changed map[string]bool, getenv func(string) string) error {
	s := newConfigSetter(changed)
	env := func(name string) string { return getenv(EnvPrefix + name) }

	s.setString("webhook-url", env("WEBHOOK_URL"), &cfg.WebhookURL)
	s.setString("ip-lookup-url", env("IP_LOOKUP_URL"), &cfg.IPLookupURL)
	s.setString("geo-lookup-url", env("GEO_LOOKUP_URL"), &cfg.GeoLookupURL)
	s.setString("username", env("USERNAME"), &cfg.Username)
	s.setString("avatar-url", env("AVATAR_URL"), &cfg.AvatarURL)
	s.setString("title", env("TITLE"), &cfg.Title)
	s.setString("footer", env("FOOTER"), &cfg.Footer)
	s.setString("label", env("LABEL"), &cfg.Label)
	s.setString("iface", env("IFACE"), &cfg.Iface)

	if err := s.setIntFromString("color", env("COLOR"), &cfg.Color); err != nil {
		return err
	}

	if err := s.setDuration("timeout", env("HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("interval", env("INTERVAL"), &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("min-gap", env("MIN_GAP"), &cfg.MinGap); err != nil {
		return err
	}

	s.setBoolFromString("watch", env("WATCH"), &cfg.Watch)
	s.setBoolFromString("dry-run", env("DRY_RUN"), &cfg.DryRun)
	s.setBoolFromString("debug", env("DEBUG"), &cfg.Debug)

	return nil
}
