package http

import (
	"context"
	"errors"
	"fmt"
	"net/netip"

	"github.com/bft-labs/devicereport/internal/domain"
	"github.com/bft-labs/devicereport/internal/ports"
)

// DefaultIPLookupURL returns {"ip": "..."}.
const DefaultIPLookupURL = "https://api.ipify.org?format=json"

var errMissingIP = errors.New("response has no ip field")

// IPResolver implements ports.IPResolver against an ipify-style service.
type IPResolver struct {
	client    ports.HTTPClient
	url       string
	userAgent string
}

// NewIPResolver creates a resolver querying url.
func NewIPResolver(client ports.HTTPClient, url, userAgent string) *IPResolver {
	if url == "" {
		url = DefaultIPLookupURL
	}
	return &IPResolver{client: client, url: url, userAgent: userAgent}
}

// ResolveIP returns the public IP reported by the lookup service.
func (r *IPResolver) ResolveIP(ctx context.Context) (string, error) {
	var body struct {
		IP string `json:"ip"`
	}
	if err := getJSON(ctx, r.client, r.url, r.userAgent, &body); err != nil {
		return "", domain.SourceError("ip lookup", err)
	}
	if body.IP == "" {
		return "", domain.SourceError("ip lookup", errMissingIP)
	}
	addr, err := netip.ParseAddr(body.IP)
	if err != nil {
		return "", domain.SourceError("ip lookup", fmt.Errorf("parse ip %q: %w", body.IP, err))
	}
	return addr.String(), nil
}

var _ ports.IPResolver = (*IPResolver)(nil)
