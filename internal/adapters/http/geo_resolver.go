package http

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bft-labs/devicereport/internal/domain"
	"github.com/bft-labs/devicereport/internal/ports"
)

// DefaultGeoLookupURL is an ipapi.co URL template; {ip} is replaced by the
// address being looked up.
const DefaultGeoLookupURL = "https://ipapi.co/{ip}/json/"

// IPPlaceholder marks where the IP goes in a geo lookup URL template.
const IPPlaceholder = "{ip}"

// GeoResolver implements ports.GeoResolver against an ipapi-style service.
type GeoResolver struct {
	client    ports.HTTPClient
	template  string
	userAgent string
}

// NewGeoResolver creates a resolver for the given URL template.
func NewGeoResolver(client ports.HTTPClient, template, userAgent string) *GeoResolver {
	if template == "" {
		template = DefaultGeoLookupURL
	}
	return &GeoResolver{client: client, template: template, userAgent: userAgent}
}

// URL returns the lookup URL for ip.
func (r *GeoResolver) URL(ip string) string {
	return strings.ReplaceAll(r.template, IPPlaceholder, url.PathEscape(ip))
}

// ResolveGeo returns the attributes the service knows for ip.
// ipapi answers some failures (rate limits, reserved ranges) with
// {"error": true, "reason": ...}; those count as unavailable.
func (r *GeoResolver) ResolveGeo(ctx context.Context, ip string) (domain.GeoReport, error) {
	attrs := map[string]interface{}{}
	if err := getJSON(ctx, r.client, r.URL(ip), r.userAgent, &attrs); err != nil {
		return domain.NewGeoReport(ip), domain.SourceError("geo lookup", err)
	}
	if failed, _ := attrs["error"].(bool); failed {
		reason, _ := attrs["reason"].(string)
		return domain.NewGeoReport(ip), domain.SourceError("geo lookup", fmt.Errorf("service error: %s", reason))
	}
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	return domain.GeoReport{IP: ip, Attrs: attrs}, nil
}

var _ ports.GeoResolver = (*GeoResolver)(nil)
