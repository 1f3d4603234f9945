package ports

import (
	"context"

	"github.com/bft-labs/devicereport/internal/domain"
)

// DeviceSource reads device attributes from the local environment.
// Gather never fails: unavailable attributes are left at their zero value
// and defaulted by the caller.
type DeviceSource interface {
	Gather(ctx context.Context) domain.DeviceProfile
}

// HintProvider is an optional DeviceSource capability exposing
// high-entropy platform details (architecture, model, platform version...).
// Callers check for it with a type assertion.
type HintProvider interface {
	HighEntropyHints(ctx context.Context) (map[string]string, error)
}
