// Package host implements ports.DeviceSource by reading the local host:
// procfs, sysfs, /etc, environment variables and the controlling terminal.
package host

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/bft-labs/devicereport/internal/domain"
	"github.com/bft-labs/devicereport/internal/ports"
)

// Source reads device attributes from the host. Every read is best-effort;
// anything unavailable is left at its zero value.
type Source struct {
	root     string
	getenv   func(string) string
	hostname func() (string, error)
	termSize func() (int, int, error)
	now      func() time.Time
	version  string
	label    string
	iface    string
}

// Option configures a Source.
type Option func(*Source)

// WithRoot reads procfs, sysfs and /etc below root instead of "/".
func WithRoot(root string) Option {
	return func(s *Source) { s.root = root }
}

// WithEnv replaces os.Getenv.
func WithEnv(getenv func(string) string) Option {
	return func(s *Source) { s.getenv = getenv }
}

// WithHostname replaces os.Hostname.
func WithHostname(fn func() (string, error)) Option {
	return func(s *Source) { s.hostname = fn }
}

// WithTerminalSize replaces the stdout terminal size probe.
func WithTerminalSize(fn func() (int, int, error)) Option {
	return func(s *Source) { s.termSize = fn }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Source) { s.now = now }
}

// WithVersion sets the agent version reported in the user agent.
func WithVersion(v string) Option {
	return func(s *Source) { s.version = v }
}

// WithLabel sets the operator-supplied label attached to the profile.
func WithLabel(label string) Option {
	return func(s *Source) { s.label = label }
}

// WithInterface pins the network interface used for network hints.
// Empty means the interface carrying the default route.
func WithInterface(name string) Option {
	return func(s *Source) { s.iface = name }
}

// NewSource creates a Source for the running host.
func NewSource(opts ...Option) *Source {
	s := &Source{
		root:     "/",
		getenv:   os.Getenv,
		hostname: os.Hostname,
		termSize: stdoutSize,
		now:      time.Now,
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UserAgent identifies this agent, in the usual product/version form.
func (s *Source) UserAgent() string {
	return fmt.Sprintf("devicereport/%s (%s; %s) %s", s.version, runtime.GOOS, runtime.GOARCH, runtime.Version())
}

// Gather reads the device profile. High-entropy hints are not included; they
// are requested separately through HighEntropyHints.
func (s *Source) Gather(ctx context.Context) domain.DeviceProfile {
	p := domain.DeviceProfile{
		UserAgent:  s.UserAgent(),
		Platform:   s.platform(),
		Language:   ParseLocale(s.locale()),
		Screen:     s.screen(),
		Viewport:   s.viewport(),
		MemoryGB:   s.memoryGB(),
		DoNotTrack: doNotTrack(s.getenv("DO_NOT_TRACK")),
		Connection: s.connection(),
		Label:      s.label,
	}
	if n := runtime.NumCPU(); n > 0 {
		p.Cores = &n
	}
	if h, err := s.hostname(); err == nil {
		p.Hostname = h
	}
	p.Timezone, p.TimezoneOffsetMinutes = s.timezone()
	return p
}

// HighEntropyHints returns finer-grained platform details.
func (s *Source) HighEntropyHints(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.SourceError("high-entropy hints", err)
	}
	hints := map[string]string{
		"architecture":    runtime.GOARCH,
		"bitness":         strconv.Itoa(strconv.IntSize),
		"platform":        runtime.GOOS,
		"uaFullVersion":   s.version,
		"fullVersionList": fmt.Sprintf("devicereport;v=%s, go;v=%s", s.version, strings.TrimPrefix(runtime.Version(), "go")),
	}
	if v := s.readLine("proc/sys/kernel/osrelease"); v != "" {
		hints["platformVersion"] = v
	}
	if v := s.readLine("sys/devices/virtual/dmi/id/product_name"); v != "" {
		hints["model"] = v
	}
	return hints, nil
}

func (s *Source) path(rel string) string {
	return filepath.Join(s.root, rel)
}

// readLine returns the first line of a file below root, trimmed.
func (s *Source) readLine(rel string) string {
	b, err := os.ReadFile(s.path(rel))
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(b), "\n")
	return strings.TrimSpace(line)
}

func (s *Source) platform() string {
	for _, rel := range []string{"etc/os-release", "usr/lib/os-release"} {
		b, err := os.ReadFile(s.path(rel))
		if err != nil {
			continue
		}
		if name := osReleaseValue(string(b), "PRETTY_NAME"); name != "" {
			return name
		}
	}
	return runtime.GOOS + "/" + runtime.GOARCH
}

func osReleaseValue(content, key string) string {
	for _, line := range strings.Split(content, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok || k != key {
			continue
		}
		return strings.Trim(v, `"'`)
	}
	return ""
}

func (s *Source) locale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := s.getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// screen reads the primary framebuffer size ("1920,1080").
func (s *Source) screen() domain.Size {
	w, h, ok := strings.Cut(s.readLine("sys/class/graphics/fb0/virtual_size"), ",")
	if !ok {
		return domain.Size{}
	}
	width, err1 := strconv.Atoi(strings.TrimSpace(w))
	height, err2 := strconv.Atoi(strings.TrimSpace(h))
	if err1 != nil || err2 != nil {
		return domain.Size{}
	}
	return domain.Size{Width: width, Height: height}
}

// viewport is the controlling terminal size in cells.
func (s *Source) viewport() domain.Size {
	if s.termSize == nil {
		return domain.Size{}
	}
	w, h, err := s.termSize()
	if err != nil {
		return domain.Size{}
	}
	return domain.Size{Width: w, Height: h}
}

func stdoutSize() (int, int, error) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0, fmt.Errorf("stdout is not a terminal")
	}
	return term.GetSize(fd)
}

// memoryGB reads MemTotal and reports it in GiB with one decimal.
func (s *Source) memoryGB() *float64 {
	b, err := os.ReadFile(s.path("proc/meminfo"))
	if err != nil {
		return nil
	}
	for _, line := range strings.Split(string(b), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "MemTotal:" {
			continue
		}
		kb, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || kb <= 0 {
			return nil
		}
		gb := math.Round(kb/(1024*1024)*10) / 10
		return &gb
	}
	return nil
}

// doNotTrack maps the DO_NOT_TRACK convention onto the "1"/"0" preference.
func doNotTrack(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return "1"
	case "0", "false", "no":
		return "0"
	default:
		return domain.DNTUnspecified
	}
}

// timezone resolves the IANA zone name and its current offset east of UTC.
func (s *Source) timezone() (string, int) {
	now := s.now()
	name := strings.TrimPrefix(s.getenv("TZ"), ":")
	if name == "" {
		name = s.readLine("etc/timezone")
	}
	if name == "" {
		if target, err := os.Readlink(s.path("etc/localtime")); err == nil {
			if _, zone, ok := strings.Cut(target, "zoneinfo/"); ok {
				name = zone
			}
		}
	}
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			_, offset := now.In(loc).Zone()
			return name, offset / 60
		}
	}
	_, offset := now.Zone()
	return name, offset / 60
}

var _ ports.DeviceSource = (*Source)(nil)
var _ ports.HintProvider = (*Source)(nil)
