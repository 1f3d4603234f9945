package ports

import (
	"context"

	"github.com/bft-labs/devicereport/internal/domain"
)

// ReportSender delivers a report payload to the webhook.
type ReportSender interface {
	// Send issues exactly one delivery attempt. It returns the HTTP status
	// on success and a *domain.DeliveryError otherwise.
	Send(ctx context.Context, payload domain.Payload) (int, error)
}
