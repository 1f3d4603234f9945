package domain

import "fmt"

// Sentinel values substituted when real data is unavailable.
const (
	Unknown        = "unknown"
	NotAvailable   = "N/A"
	DNTUnspecified = "unspecified"
)

// Size is a width x height pair in pixels (or terminal cells for viewports).
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// String renders "WxH", or "" when either dimension is unknown.
func (s Size) String() string {
	if s.Width <= 0 || s.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Connection holds optional network hints. Nil members are unknown.
type Connection struct {
	EffectiveType string   `json:"effective_type,omitempty"`
	DownlinkMbps  *float64 `json:"downlink_mbps,omitempty"`
	RTTMillis     *int     `json:"rtt_ms,omitempty"`
}

// DeviceProfile is the set of device attributes gathered for one report.
type DeviceProfile struct {
	UserAgent string `json:"user_agent"`

	// Hints holds high-entropy platform details. Empty when the source
	// lacks the capability or the request failed.
	Hints map[string]string `json:"hints"`

	Platform string `json:"platform"`
	Language string `json:"language"`
	Screen   Size   `json:"screen"`
	Viewport Size   `json:"viewport"`

	Cores          *int     `json:"cores,omitempty"`
	MemoryGB       *float64 `json:"memory_gb,omitempty"`
	MaxTouchPoints int      `json:"max_touch_points"`

	CookieEnabled bool   `json:"cookie_enabled"`
	DoNotTrack    string `json:"do_not_track"`

	Timezone string `json:"timezone"`
	// TimezoneOffsetMinutes is the offset east of UTC.
	TimezoneOffsetMinutes int `json:"timezone_offset_minutes"`

	Connection *Connection `json:"connection,omitempty"`

	Hostname string `json:"hostname,omitempty"`
	Label    string `json:"label,omitempty"`
}

// ApplyDefaults fills unavailable attributes with their documented defaults.
func (p *DeviceProfile) ApplyDefaults() {
	if p.UserAgent == "" {
		p.UserAgent = Unknown
	}
	if p.Hints == nil {
		p.Hints = map[string]string{}
	}
	if p.Platform == "" {
		p.Platform = Unknown
	}
	if p.Language == "" {
		p.Language = Unknown
	}
	if p.DoNotTrack == "" {
		p.DoNotTrack = DNTUnspecified
	}
	if p.Timezone == "" {
		p.Timezone = Unknown
	}
	if p.MaxTouchPoints < 0 {
		p.MaxTouchPoints = 0
	}
}
