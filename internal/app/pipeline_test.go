package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/bft-labs/devicereport/internal/adapters/http"
	"github.com/bft-labs/devicereport/internal/domain"
	"github.com/bft-labs/devicereport/internal/ports"
	"github.com/bft-labs/devicereport/pkg/log"
)

type fakeIP struct {
	ip    string
	err   error
	delay time.Duration
}

func (f fakeIP) ResolveIP(ctx context.Context) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.ip, f.err
}

type fakeGeo struct {
	attrs  map[string]interface{}
	err    error
	gotIPs []string
}

func (f *fakeGeo) ResolveGeo(ctx context.Context, ip string) (domain.GeoReport, error) {
	f.gotIPs = append(f.gotIPs, ip)
	if f.err != nil {
		return domain.NewGeoReport(ip), f.err
	}
	return domain.GeoReport{IP: ip, Attrs: f.attrs}, nil
}

// plainSource has no high-entropy hint capability.
type plainSource struct {
	profile domain.DeviceProfile
}

func (s plainSource) Gather(ctx context.Context) domain.DeviceProfile { return s.profile }

type hintingSource struct {
	plainSource
	hints map[string]string
	err   error
	calls int
}

func (s *hintingSource) HighEntropyHints(ctx context.Context) (map[string]string, error) {
	s.calls++
	return s.hints, s.err
}

type fakeSender struct {
	status   int
	err      error
	payloads []domain.Payload
}

func (f *fakeSender) Send(ctx context.Context, p domain.Payload) (int, error) {
	f.payloads = append(f.payloads, p)
	return f.status, f.err
}

func bufferLogger(buf *bytes.Buffer) log.Logger {
	return log.NewZerologAdapterWithLogger(zerolog.New(buf).Level(zerolog.DebugLevel))
}

func linesContaining(out, substr string) int {
	n := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

func newTestPipeline(ip fakeIP, geo *fakeGeo, src ports.DeviceSource, sender *fakeSender, buf *bytes.Buffer) *Pipeline {
	p := NewPipeline(PipelineConfig{Branding: domain.DefaultBranding()}, ip, geo, src, sender, bufferLogger(buf))
	p.newID = func() string { return "report-1" }
	p.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	return p
}

func TestPipeline_IPFailureStillDelivers(t *testing.T) {
	var buf bytes.Buffer
	geo := &fakeGeo{err: domain.SourceError("geo lookup", errors.New("invalid ip"))}
	sender := &fakeSender{status: http.StatusNoContent}
	p := newTestPipeline(fakeIP{err: domain.SourceError("ip lookup", errors.New("timeout"))}, geo, plainSource{}, sender, &buf)

	out := p.Run(context.Background())

	assert.Equal(t, domain.Unknown, out.IP.Value)
	assert.Equal(t, domain.StepDefaulted, out.IP.Status)
	assert.Equal(t, []string{domain.Unknown}, geo.gotIPs, "geo lookup still runs with the sentinel")
	assert.True(t, out.Geo.Value.Empty())
	assert.Equal(t, domain.StepDefaulted, out.Geo.Status)
	require.Len(t, sender.payloads, 1)
	assert.True(t, out.Delivered())
}

func TestPipeline_GeoFailureYieldsEmptyRecord(t *testing.T) {
	var buf bytes.Buffer
	geo := &fakeGeo{err: domain.SourceError("geo lookup", errors.New("server returned 429"))}
	sender := &fakeSender{status: http.StatusNoContent}
	p := newTestPipeline(fakeIP{ip: "1.2.3.4"}, geo, plainSource{}, sender, &buf)

	out := p.Run(context.Background())

	assert.Equal(t, "1.2.3.4", out.Geo.Value.IP)
	assert.True(t, out.Geo.Value.Empty())
	assert.True(t, errors.Is(out.Geo.Err, domain.ErrSourceUnavailable))
	for _, f := range out.Fields {
		assert.NotEqual(t, "City / Region", f.Name)
		assert.NotEqual(t, "Country", f.Name)
	}
	require.Len(t, sender.payloads, 1)
}

func TestPipeline_HintCapability(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		var buf bytes.Buffer
		sender := &fakeSender{status: http.StatusNoContent}
		out := newTestPipeline(fakeIP{ip: "1.2.3.4"}, &fakeGeo{}, plainSource{}, sender, &buf).Run(context.Background())

		assert.Empty(t, out.Hints.Value)
		assert.NotNil(t, out.Device.Value.Hints)
		assert.Equal(t, domain.StepDefaulted, out.Hints.Status)
		assert.NoError(t, out.Hints.Err)
		assert.True(t, out.Delivered())
	})

	t.Run("failing", func(t *testing.T) {
		var buf bytes.Buffer
		src := &hintingSource{err: domain.SourceError("high-entropy hints", errors.New("denied"))}
		sender := &fakeSender{status: http.StatusNoContent}
		out := newTestPipeline(fakeIP{ip: "1.2.3.4"}, &fakeGeo{}, src, sender, &buf).Run(context.Background())

		assert.Equal(t, 1, src.calls)
		assert.Empty(t, out.Device.Value.Hints)
		assert.Equal(t, domain.StepDefaulted, out.Hints.Status)
		assert.Error(t, out.Hints.Err)
		assert.True(t, out.Delivered())
	})

	t.Run("present", func(t *testing.T) {
		var buf bytes.Buffer
		src := &hintingSource{hints: map[string]string{"architecture": "arm64"}}
		sender := &fakeSender{status: http.StatusNoContent}
		out := newTestPipeline(fakeIP{ip: "1.2.3.4"}, &fakeGeo{}, src, sender, &buf).Run(context.Background())

		assert.Equal(t, domain.StepOK, out.Hints.Status)
		assert.Equal(t, "arm64", out.Device.Value.Hints["architecture"])
	})
}

func TestPipeline_DeliveryRejectedLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	sender := &fakeSender{
		status: http.StatusBadRequest,
		err:    &domain.DeliveryError{StatusCode: http.StatusBadRequest, Body: `{"message":"Invalid Form Body"}`},
	}
	p := newTestPipeline(fakeIP{ip: "1.2.3.4"}, &fakeGeo{}, plainSource{}, sender, &buf)

	var out domain.Outcome
	require.NotPanics(t, func() { out = p.Run(context.Background()) })

	assert.False(t, out.Delivered())
	assert.Equal(t, domain.StepFailed, out.Delivery.Status)
	assert.Equal(t, http.StatusBadRequest, out.Delivery.Value)
	assert.Len(t, sender.payloads, 1, "no retry")
	assert.Equal(t, 1, linesContaining(buf.String(), `"status":400`))
	assert.Equal(t, 1, linesContaining(buf.String(), "Invalid Form Body"))
}

func TestPipeline_DeliveryTransportErrorLogged(t *testing.T) {
	var buf bytes.Buffer
	sender := &fakeSender{err: &domain.DeliveryError{Err: errors.New("connection refused")}}
	out := newTestPipeline(fakeIP{ip: "1.2.3.4"}, &fakeGeo{}, plainSource{}, sender, &buf).Run(context.Background())

	assert.Equal(t, domain.StepFailed, out.Delivery.Status)
	assert.Equal(t, 1, linesContaining(buf.String(), "connection refused"))
	assert.Equal(t, 1, linesContaining(buf.String(), `"level":"error"`))
}

func TestPipeline_FillsRTTFromIPLookup(t *testing.T) {
	var buf bytes.Buffer
	src := plainSource{profile: domain.DeviceProfile{Connection: &domain.Connection{EffectiveType: "ethernet"}}}
	sender := &fakeSender{status: http.StatusNoContent}
	out := newTestPipeline(fakeIP{ip: "1.2.3.4", delay: 5 * time.Millisecond}, &fakeGeo{}, src, sender, &buf).Run(context.Background())

	require.NotNil(t, out.Device.Value.Connection.RTTMillis)
	assert.GreaterOrEqual(t, *out.Device.Value.Connection.RTTMillis, 5)
}

func TestPipeline_ReportIDInLogs(t *testing.T) {
	var buf bytes.Buffer
	sender := &fakeSender{status: http.StatusNoContent}
	out := newTestPipeline(fakeIP{ip: "1.2.3.4"}, &fakeGeo{}, plainSource{}, sender, &buf).Run(context.Background())

	assert.Equal(t, "report-1", out.ReportID)
	assert.Equal(t, 1, linesContaining(buf.String(), "report sent"))
	assert.Contains(t, buf.String(), `"report_id":"report-1"`)
}

func TestPipeline_EndToEndOverHTTP(t *testing.T) {
	ipSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ip":"1.2.3.4"}`)
	}))
	defer ipSrv.Close()

	var geoPath string
	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		geoPath = r.URL.Path
		fmt.Fprint(w, `{"city":"Paris","country_name":"France","country":"FR"}`)
	}))
	defer geoSrv.Close()

	var posted []byte
	hookSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posted, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hookSrv.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	src := plainSource{profile: domain.DeviceProfile{Screen: domain.Size{Width: 1920, Height: 1080}}}
	var buf bytes.Buffer
	p := NewPipeline(
		PipelineConfig{Branding: domain.DefaultBranding()},
		httpAdapter.NewIPResolver(client, ipSrv.URL, "test"),
		httpAdapter.NewGeoResolver(client, geoSrv.URL+"/{ip}/json/", "test"),
		src,
		httpAdapter.NewWebhookSender(client, hookSrv.URL, "test"),
		bufferLogger(&buf),
	)

	out := p.Run(context.Background())
	require.True(t, out.Delivered(), buf.String())
	assert.Equal(t, "/1.2.3.4/json/", geoPath)

	require.NoError(t, httpAdapter.ValidateEnvelope(posted))

	var payload domain.Payload
	require.NoError(t, json.Unmarshal(posted, &payload))
	require.Len(t, payload.Embeds, 1)
	got := map[string]string{}
	for _, f := range payload.Embeds[0].Fields {
		got[f.Name] = f.Value
	}
	assert.Equal(t, "1.2.3.4", got["IP"])
	assert.Equal(t, "Paris / N/A", got["City / Region"])
	assert.Equal(t, "France (FR)", got["Country"])
	assert.Equal(t, "1920x1080", got["Screen"])
	for name, v := range got {
		assert.NotEqual(t, domain.NotAvailable, v, name)
		assert.NotEmpty(t, v, name)
	}
}
