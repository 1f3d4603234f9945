package domain

import (
	"errors"
	"fmt"
)

// Domain errors can be checked with errors.Is.
var (
	// ErrSourceUnavailable is wrapped by lookup and hint errors. Callers
	// substitute a default value instead of surfacing it.
	ErrSourceUnavailable = errors.New("devicereport: source unavailable")

	// ErrDeliveryFailed is wrapped by every webhook delivery error.
	ErrDeliveryFailed = errors.New("devicereport: delivery failed")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("devicereport: invalid configuration")
)

// DeliveryError describes a webhook delivery that was rejected or never
// completed. StatusCode is zero when no response was received.
type DeliveryError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("webhook returned %d: %s", e.StatusCode, e.Body)
	case e.Err != nil:
		return "webhook delivery: " + e.Err.Error()
	default:
		return ErrDeliveryFailed.Error()
	}
}

// Is reports ErrDeliveryFailed as a match.
func (e *DeliveryError) Is(target error) bool {
	return target == ErrDeliveryFailed
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// SourceError wraps a failure of the named source as ErrSourceUnavailable.
func SourceError(source string, err error) error {
	return fmt.Errorf("%s: %w: %w", source, ErrSourceUnavailable, err)
}
