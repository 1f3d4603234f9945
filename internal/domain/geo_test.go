package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoReport_Lookup(t *testing.T) {
	g := GeoReport{Attrs: map[string]interface{}{
		"city":      "Paris",
		"empty":     "",
		"nothing":   nil,
		"latitude":  json.Number("48.8566"),
		"longitude": 2.3522,
		"eu":        true,
		"in_eu":     false,
	}}

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"city", "Paris", true},
		{"empty", "", false},
		{"nothing", "", false},
		{"missing", "", false},
		{"latitude", "48.8566", true},
		{"longitude", "2.3522", true},
		{"eu", "true", true},
		{"in_eu", "", false},
	}
	for _, tt := range tests {
		got, ok := g.Lookup(tt.key)
		assert.Equal(t, tt.want, got, tt.key)
		assert.Equal(t, tt.wantOK, ok, tt.key)
	}
}

func TestGeoReport_First(t *testing.T) {
	g := GeoReport{Attrs: map[string]interface{}{"network": "10.0.0.0/8"}}

	assert.Equal(t, "10.0.0.0/8", g.First("org", "network"))
	assert.Equal(t, NotAvailable, g.First("city"))
	assert.Equal(t, NotAvailable, GeoReport{}.First("city"), "nil attrs")
}

func TestDeviceProfile_ApplyDefaults(t *testing.T) {
	var p DeviceProfile
	p.MaxTouchPoints = -1
	p.ApplyDefaults()

	assert.Equal(t, Unknown, p.UserAgent)
	assert.Equal(t, Unknown, p.Platform)
	assert.Equal(t, Unknown, p.Language)
	assert.Equal(t, Unknown, p.Timezone)
	assert.Equal(t, DNTUnspecified, p.DoNotTrack)
	assert.NotNil(t, p.Hints)
	assert.Empty(t, p.Hints)
	assert.Equal(t, 0, p.MaxTouchPoints)
	assert.Nil(t, p.Cores)
}

func TestDeliveryError(t *testing.T) {
	err := &DeliveryError{StatusCode: 400, Body: "bad embed"}
	assert.True(t, errors.Is(err, ErrDeliveryFailed))
	assert.Equal(t, "webhook returned 400: bad embed", err.Error())

	cause := errors.New("connection refused")
	wrapped := &DeliveryError{Err: cause}
	assert.True(t, errors.Is(wrapped, cause))
	assert.True(t, errors.Is(wrapped, ErrDeliveryFailed))
}

func TestSourceError(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := SourceError("ip lookup", cause)

	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "ip lookup")
}
