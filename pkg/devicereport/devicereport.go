package devicereport

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/bft-labs/devicereport/internal/adapters/host"
	httpAdapter "github.com/bft-labs/devicereport/internal/adapters/http"
	"github.com/bft-labs/devicereport/internal/app"
	"github.com/bft-labs/devicereport/internal/cliconfig"
	"github.com/bft-labs/devicereport/internal/domain"
	"github.com/bft-labs/devicereport/internal/ports"
	"github.com/bft-labs/devicereport/pkg/log"
)

// Config holds the reporter configuration.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// Outcome records what each step of one report produced.
type Outcome = domain.Outcome

// Field is one name/value entry of the report embed.
type Field = domain.Field

// DefaultConfig returns a Config with default lookup endpoints and branding.
// WebhookURL must be set (or DryRun enabled) before calling New.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Reporter collects and delivers device reports.
type Reporter struct {
	config   Config
	pipeline *app.Pipeline
}

// New creates a Reporter. The configuration is validated; an invalid one
// returns an error wrapping domain.ErrInvalidConfig.
func New(cfg Config, opts ...Option) (*Reporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     log.NewNoopLogger(),
		output:     os.Stdout,
		version:    "dev",
	}
	for _, opt := range opts {
		opt(&o)
	}

	hostSource := host.NewSource(
		host.WithVersion(o.version),
		host.WithLabel(cfg.Label),
		host.WithInterface(cfg.Iface),
	)
	device := o.device
	if device == nil {
		device = hostSource
	}
	ua := hostSource.UserAgent()

	var sender ports.ReportSender
	if cfg.DryRun {
		sender = httpAdapter.NewDryRunSender(o.output)
	} else {
		sender = httpAdapter.NewWebhookSender(o.httpClient, cfg.WebhookURL, ua)
	}

	pipeline := app.NewPipeline(
		app.PipelineConfig{Branding: cfg.Branding()},
		httpAdapter.NewIPResolver(o.httpClient, cfg.IPLookupURL, ua),
		httpAdapter.NewGeoResolver(o.httpClient, cfg.GeoLookupURL, ua),
		device,
		sender,
		o.logger,
	)

	return &Reporter{config: cfg, pipeline: pipeline}, nil
}

// Run collects one report and delivers it. It never returns an error;
// inspect the outcome for what was defaulted and whether delivery succeeded.
func (r *Reporter) Run(ctx context.Context) Outcome {
	return r.pipeline.Run(ctx)
}

// Config returns the validated configuration of the reporter.
func (r *Reporter) Config() Config {
	return r.config
}

// WatchConfig controls repeat mode.
type WatchConfig struct {
	// Interval between reports. Zero disables periodic reports.
	Interval time.Duration
	// MinGap is the minimum spacing between two reports.
	MinGap time.Duration
	// ConfigPath is watched for writes; each write reloads the reporter
	// through the load function and sends a report. Empty disables watching.
	ConfigPath string
}

// Watch calls load, runs a report, then repeats on every interval tick and
// config file write until ctx is done. A failing reload keeps the previous
// reporter. With neither Interval nor ConfigPath set it reports once.
func Watch(ctx context.Context, wc WatchConfig, load func() (*Reporter, error), logger log.Logger) error {
	build := func() (app.Runner, error) {
		r, err := load()
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	s := app.NewScheduler(app.SchedulerConfig{
		Interval:  wc.Interval,
		MinGap:    wc.MinGap,
		WatchPath: wc.ConfigPath,
	}, build, logger)
	return s.Run(ctx)
}
