package ports

import (
	"context"

	"github.com/bft-labs/devicereport/internal/domain"
)

// IPResolver resolves the public IP address of this host.
type IPResolver interface {
	// ResolveIP returns the public IP. Failures wrap
	// domain.ErrSourceUnavailable.
	ResolveIP(ctx context.Context) (string, error)
}

// GeoResolver resolves IP-derived geolocation attributes.
type GeoResolver interface {
	// ResolveGeo returns the attributes known for ip. ip may be
	// domain.Unknown. Failures wrap domain.ErrSourceUnavailable.
	ResolveGeo(ctx context.Context, ip string) (domain.GeoReport, error)
}
