package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Per-value length caps, in characters. The receiving service rejects
// values over 1024.
const (
	DefaultValueCap   = 900
	UserAgentValueCap = 1000
)

// Truncate caps s at n characters (runes).
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// ComposeFields builds the ordered, unfiltered report fields from the device
// profile and geo report. Values are already capped.
func ComposeFields(d DeviceProfile, g GeoReport) []Field {
	ip := g.IP
	if ip == "" {
		ip = Unknown
	}

	timezone := g.First("timezone")
	if timezone == NotAvailable && d.Timezone != "" {
		timezone = d.Timezone
	}

	fields := []Field{
		{Name: "IP", Value: ip, Inline: true},
		{Name: "ISP / Org", Value: g.First("org", "network", "org_name"), Inline: true},
		{Name: "ASN", Value: g.First("asn", "asn_org", "org"), Inline: true},
		{Name: "City / Region", Value: composite("%s / %s", g.First("city"), g.First("region")), Inline: true},
		{Name: "Country", Value: composite("%s (%s)", g.First("country_name"), g.First("country")), Inline: true},
		{Name: "IP Lat/Lon", Value: composite("%s, %s", g.First("latitude"), g.First("longitude")), Inline: true},
		{Name: "Timezone", Value: timezone, Inline: true},
		{Name: "User-Agent", Value: Truncate(d.UserAgent, UserAgentValueCap)},
		{Name: "UA Hints", Value: hintsValue(d.Hints)},
		{Name: "Platform", Value: orNA(d.Platform), Inline: true},
		{Name: "Screen", Value: orNA(d.Screen.String()), Inline: true},
		{Name: "Viewport", Value: orNA(d.Viewport.String()), Inline: true},
		{Name: "Cores / Mem", Value: composite("%s cores / %s GB", intOrNA(d.Cores), floatOrNA(d.MemoryGB)), Inline: true},
		{Name: "Network Hints", Value: networkValue(d.Connection), Inline: true},
		{Name: "Max Touch Points", Value: strconv.Itoa(max(d.MaxTouchPoints, 0)), Inline: true},
		{Name: "DNT / Cookies", Value: fmt.Sprintf("DNT: %s / Cookies: %t", orDefault(d.DoNotTrack, DNTUnspecified), d.CookieEnabled), Inline: true},
		{Name: "Host / Label", Value: hostValue(d.Hostname, d.Label)},
	}

	for i := range fields {
		if fields[i].Name == "User-Agent" {
			continue
		}
		fields[i].Value = Truncate(fields[i].Value, DefaultValueCap)
	}
	return fields
}

// FilterFields drops fields whose value is empty or exactly NotAvailable.
func FilterFields(fields []Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.Value == "" || f.Value == NotAvailable {
			continue
		}
		out = append(out, f)
	}
	return out
}

// BuildFields composes and filters in one step.
func BuildFields(d DeviceProfile, g GeoReport) []Field {
	return FilterFields(ComposeFields(d, g))
}

// composite formats parts into format. When every part is NotAvailable the
// whole value collapses to NotAvailable so the field gets filtered; partial
// data keeps the placeholder for the missing parts.
func composite(format string, parts ...string) string {
	args := make([]interface{}, len(parts))
	missing := 0
	for i, p := range parts {
		if p == "" {
			p = NotAvailable
		}
		if p == NotAvailable {
			missing++
		}
		args[i] = p
	}
	if missing == len(parts) {
		return NotAvailable
	}
	return fmt.Sprintf(format, args...)
}

func networkValue(c *Connection) string {
	if c == nil {
		return NotAvailable
	}
	var rtt string
	if c.RTTMillis != nil && *c.RTTMillis > 0 {
		rtt = strconv.Itoa(*c.RTTMillis)
	}
	return composite("type: %s, downlink: %s, rtt: %s", orNA(c.EffectiveType), floatOrNA(c.DownlinkMbps), orNA(rtt))
}

func hintsValue(h map[string]string) string {
	if len(h) == 0 {
		return ""
	}
	keys := make([]string, 0, len(h))
	for k, v := range h {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + h[k]
	}
	return strings.Join(parts, ", ")
}

func hostValue(hostname, label string) string {
	if hostname == "" {
		hostname = NotAvailable
	}
	if label == "" {
		return hostname
	}
	return hostname + "\nlabel: " + label
}

func orNA(s string) string {
	return orDefault(s, NotAvailable)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func intOrNA(v *int) string {
	if v == nil || *v == 0 {
		return NotAvailable
	}
	return strconv.Itoa(*v)
}

func floatOrNA(v *float64) string {
	if v == nil || *v == 0 {
		return NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
