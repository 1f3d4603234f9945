package devicereport

import (
	"io"

	"github.com/bft-labs/devicereport/internal/ports"
	"github.com/bft-labs/devicereport/pkg/log"
)

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = ports.HTTPClient

// DeviceSource supplies device attributes. A source that also implements
// [HintProvider] is asked for high-entropy hints.
type DeviceSource = ports.DeviceSource

// HintProvider is the optional high-entropy hint capability of a DeviceSource.
type HintProvider = ports.HintProvider

// Option configures optional behavior of a Reporter.
type Option func(*options)

type options struct {
	httpClient HTTPClient
	logger     log.Logger
	device     DeviceSource
	output     io.Writer
	version    string
}

// WithHTTPClient sets the client used for lookups and delivery.
// If not provided, a client with the configured timeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDeviceSource replaces the host device source.
func WithDeviceSource(src DeviceSource) Option {
	return func(o *options) {
		o.device = src
	}
}

// WithOutput sets where dry-run payloads are written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithVersion sets the version reported in the User-Agent header.
func WithVersion(v string) Option {
	return func(o *options) {
		o.version = v
	}
}
