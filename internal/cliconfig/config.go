package cliconfig

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	httpAdapter "github.com/bft-labs/devicereport/internal/adapters/http"
	"github.com/bft-labs/devicereport/internal/domain"
)

// Default lookup endpoints.
const (
	DefaultIPLookupURL  = httpAdapter.DefaultIPLookupURL
	DefaultGeoLookupURL = httpAdapter.DefaultGeoLookupURL
)

// Webhook limits on the message identity, in characters.
const (
	maxUsernameLen = 80
	maxTitleLen    = 256
	maxFooterLen   = 2048
)

// Config holds CLI configuration for devicereport.
type Config struct {
	WebhookURL   string
	IPLookupURL  string
	GeoLookupURL string

	Username  string
	AvatarURL string
	Title     string
	Footer    string
	Color     int

	Label string
	Iface string

	HTTPTimeout time.Duration
	Interval    time.Duration
	MinGap      time.Duration

	Watch  bool
	DryRun bool
	Debug  bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	b := domain.DefaultBranding()
	return Config{
		IPLookupURL:  DefaultIPLookupURL,
		GeoLookupURL: DefaultGeoLookupURL,
		Username:     b.Username,
		AvatarURL:    b.AvatarURL,
		Title:        b.Title,
		Footer:       b.Footer,
		Color:        b.Color,
		HTTPTimeout:  15 * time.Second,
		MinGap:       10 * time.Second,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
// Errors wrap domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.WebhookURL == "" && !c.DryRun {
		return invalid("webhook-url is required (or --dry-run)")
	}
	if c.WebhookURL != "" {
		if err := checkHTTPURL("webhook-url", c.WebhookURL); err != nil {
			return err
		}
	}

	if c.IPLookupURL == "" {
		c.IPLookupURL = DefaultIPLookupURL
	}
	if err := checkHTTPURL("ip-lookup-url", c.IPLookupURL); err != nil {
		return err
	}

	if c.GeoLookupURL == "" {
		c.GeoLookupURL = DefaultGeoLookupURL
	}
	if !strings.Contains(c.GeoLookupURL, httpAdapter.IPPlaceholder) {
		return invalid("geo-lookup-url must contain the {ip} placeholder")
	}
	if err := checkHTTPURL("geo-lookup-url", strings.ReplaceAll(c.GeoLookupURL, httpAdapter.IPPlaceholder, "0.0.0.0")); err != nil {
		return err
	}

	if n := utf8.RuneCountInString(c.Username); n < 1 || n > maxUsernameLen {
		return invalid(fmt.Sprintf("username must be 1 to %d characters", maxUsernameLen))
	}
	if utf8.RuneCountInString(c.Title) > maxTitleLen {
		return invalid(fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}
	if utf8.RuneCountInString(c.Footer) > maxFooterLen {
		return invalid(fmt.Sprintf("footer must be at most %d characters", maxFooterLen))
	}
	if c.Color < 0 || c.Color > 0xFFFFFF {
		return invalid("color must be between 0 and 0xFFFFFF")
	}
	if c.HTTPTimeout <= 0 {
		return invalid("timeout must be positive")
	}
	if c.Interval < 0 {
		return invalid("interval must not be negative")
	}
	if c.MinGap < 0 {
		return invalid("min-gap must not be negative")
	}
	return nil
}

// Branding returns the message identity configured for reports.
func (c Config) Branding() domain.Branding {
	return domain.Branding{
		Username:  c.Username,
		AvatarURL: c.AvatarURL,
		Title:     c.Title,
		Footer:    c.Footer,
		Color:     c.Color,
	}
}

// Redacted returns a copy safe to log: the webhook URL embeds its token.
func (c Config) Redacted() Config {
	if u, err := url.Parse(c.WebhookURL); err == nil && c.WebhookURL != "" {
		c.WebhookURL = u.Scheme + "://" + u.Host + "/*****"
	}
	return c
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, msg)
}

func checkHTTPURL(flag, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidConfig, flag, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid(flag + " must be an absolute http(s) URL")
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if set and flag not changed.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Accepts decimal, 0x hex and #RRGGBB (for colors).
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	v := value
	if strings.HasPrefix(v, "#") {
		v = "0x" + v[1:]
	}
	i, err := strconv.ParseInt(v, 0, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = int(i)
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
