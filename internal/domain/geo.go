package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// GeoReport is the public IP plus whatever geolocation attributes the lookup
// service returned. Every attribute is optional.
type GeoReport struct {
	IP    string
	Attrs map[string]interface{}
}

// NewGeoReport returns a report with no attributes.
func NewGeoReport(ip string) GeoReport {
	return GeoReport{IP: ip, Attrs: map[string]interface{}{}}
}

// Lookup returns the attribute rendered as a string. Missing keys, nulls,
// empty strings and false are absent.
func (g GeoReport) Lookup(key string) (string, bool) {
	v, ok := g.Attrs[key]
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case json.Number:
		s = x.String()
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if !x {
			return "", false
		}
		s = "true"
	default:
		s = fmt.Sprint(x)
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// First returns the first present attribute among keys, or NotAvailable.
func (g GeoReport) First(keys ...string) string {
	for _, k := range keys {
		if s, ok := g.Lookup(k); ok {
			return s
		}
	}
	return NotAvailable
}

// Empty reports whether no attributes are present.
func (g GeoReport) Empty() bool {
	return len(g.Attrs) == 0
}
