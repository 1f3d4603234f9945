// Package app holds the report pipeline and the scheduler that repeats it.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bft-labs/devicereport/internal/domain"
	"github.com/bft-labs/devicereport/internal/ports"
	"github.com/bft-labs/devicereport/pkg/log"
)

const tracerName = "github.com/bft-labs/devicereport/internal/app"

// Step names, used in step results, spans and logs.
const (
	StepResolveIP     = "resolve_ip"
	StepResolveGeo    = "resolve_geo"
	StepHints         = "high_entropy_hints"
	StepGatherDevice  = "gather_device"
	StepComposeReport = "compose_report"
	StepDeliver       = "deliver"
)

// PipelineConfig contains the static parts of every report.
type PipelineConfig struct {
	Branding domain.Branding
}

// Pipeline collects one report and delivers it. Steps run strictly in
// sequence; every lookup failure is absorbed by substituting its default,
// and a delivery failure is logged, never returned.
type Pipeline struct {
	config PipelineConfig
	ip     ports.IPResolver
	geo    ports.GeoResolver
	device ports.DeviceSource
	sender ports.ReportSender
	logger ports.Logger
	tracer trace.Tracer

	now   func() time.Time
	newID func() string
}

// NewPipeline creates a pipeline with the given dependencies.
// A nil logger discards all output.
func NewPipeline(
	config PipelineConfig,
	ip ports.IPResolver,
	geo ports.GeoResolver,
	device ports.DeviceSource,
	sender ports.ReportSender,
	logger ports.Logger,
) *Pipeline {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Pipeline{
		config: config,
		ip:     ip,
		geo:    geo,
		device: device,
		sender: sender,
		logger: logger,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Run executes one invocation: resolve IP, resolve geo, gather device
// attributes, compose and deliver. It always returns; the outcome records
// how each step ended.
func (p *Pipeline) Run(ctx context.Context) domain.Outcome {
	out := domain.Outcome{ReportID: p.newID(), CapturedAt: p.now()}

	ctx, span := p.tracer.Start(ctx, "devicereport.run",
		trace.WithAttributes(attribute.String("report.id", out.ReportID)))
	defer span.End()

	out.IP = p.resolveIP(ctx)
	out.Geo = p.resolveGeo(ctx, out.IP.Value)
	out.Hints = p.highEntropyHints(ctx)
	out.Device = p.gatherDevice(ctx, out.Hints.Value, out.IP)

	out.Fields = domain.BuildFields(out.Device.Value, out.Geo.Value)
	p.logger.Debug("report composed",
		log.String("report_id", out.ReportID),
		log.Int("fields", len(out.Fields)))

	payload := domain.NewPayload(p.config.Branding, out.CapturedAt, out.Fields)
	out.Delivery = p.deliver(ctx, out.ReportID, payload)

	span.SetAttributes(attribute.Bool("report.delivered", out.Delivered()))
	return out
}

func (p *Pipeline) resolveIP(ctx context.Context) domain.StepResult[string] {
	ctx, span := p.tracer.Start(ctx, StepResolveIP)
	defer span.End()

	start := time.Now()
	ip, err := p.ip.ResolveIP(ctx)
	elapsed := time.Since(start)
	if err != nil {
		p.sourceUnavailable(span, StepResolveIP, err)
		return domain.Defaulted(StepResolveIP, domain.Unknown, err, elapsed)
	}
	span.SetAttributes(attribute.String("ip", ip))
	return domain.Succeeded(StepResolveIP, ip, elapsed)
}

func (p *Pipeline) resolveGeo(ctx context.Context, ip string) domain.StepResult[domain.GeoReport] {
	ctx, span := p.tracer.Start(ctx, StepResolveGeo)
	defer span.End()

	start := time.Now()
	geo, err := p.geo.ResolveGeo(ctx, ip)
	elapsed := time.Since(start)
	if err != nil {
		p.sourceUnavailable(span, StepResolveGeo, err)
		return domain.Defaulted(StepResolveGeo, domain.NewGeoReport(ip), err, elapsed)
	}
	if geo.Attrs == nil {
		geo.Attrs = map[string]interface{}{}
	}
	geo.IP = ip
	return domain.Succeeded(StepResolveGeo, geo, elapsed)
}

// highEntropyHints asks the device source for hints only when it has the
// capability.
func (p *Pipeline) highEntropyHints(ctx context.Context) domain.StepResult[map[string]string] {
	hp, ok := p.device.(ports.HintProvider)
	if !ok {
		return domain.Defaulted(StepHints, map[string]string{}, nil, 0)
	}

	ctx, span := p.tracer.Start(ctx, StepHints)
	defer span.End()

	start := time.Now()
	hints, err := hp.HighEntropyHints(ctx)
	elapsed := time.Since(start)
	if err != nil {
		p.sourceUnavailable(span, StepHints, err)
		return domain.Defaulted(StepHints, map[string]string{}, err, elapsed)
	}
	if hints == nil {
		hints = map[string]string{}
	}
	return domain.Succeeded(StepHints, hints, elapsed)
}

func (p *Pipeline) gatherDevice(ctx context.Context, hints map[string]string, ip domain.StepResult[string]) domain.StepResult[domain.DeviceProfile] {
	ctx, span := p.tracer.Start(ctx, StepGatherDevice)
	defer span.End()

	start := time.Now()
	profile := p.device.Gather(ctx)
	profile.Hints = hints
	profile.ApplyDefaults()

	// The IP lookup is this host's only measured round trip.
	if c := profile.Connection; c != nil && c.RTTMillis == nil && ip.Status == domain.StepOK {
		if ms := int(ip.Elapsed.Milliseconds()); ms > 0 {
			c.RTTMillis = &ms
		}
	}
	return domain.Succeeded(StepGatherDevice, profile, time.Since(start))
}

func (p *Pipeline) deliver(ctx context.Context, reportID string, payload domain.Payload) domain.StepResult[int] {
	ctx, span := p.tracer.Start(ctx, StepDeliver)
	defer span.End()

	start := time.Now()
	status, err := p.sender.Send(ctx, payload)
	elapsed := time.Since(start)
	span.SetAttributes(attribute.Int("http.status_code", status))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")

		var de *domain.DeliveryError
		if errors.As(err, &de) && de.StatusCode != 0 {
			p.logger.Warn("webhook responded",
				log.String("report_id", reportID),
				log.Int("status", de.StatusCode),
				log.String("body", de.Body))
		} else {
			p.logger.Error("delivery failed",
				log.String("report_id", reportID),
				log.Err(err))
		}
		return domain.Failed(StepDeliver, status, err, elapsed)
	}

	p.logger.Info("report sent",
		log.String("report_id", reportID),
		log.Int("status", status),
		log.Duration("elapsed", elapsed))
	return domain.Succeeded(StepDeliver, status, elapsed)
}

func (p *Pipeline) sourceUnavailable(span trace.Span, step string, err error) {
	span.RecordError(err)
	span.SetAttributes(attribute.String("step.status", domain.StepDefaulted.String()))
	p.logger.Debug("source unavailable, using default",
		log.String("step", step),
		log.Err(err))
}
