package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/devicereport/internal/domain"
)

func TestIPResolver_ResolveIP(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{name: "ok", status: http.StatusOK, body: `{"ip":"1.2.3.4"}`, want: "1.2.3.4"},
		{name: "ipv6", status: http.StatusOK, body: `{"ip":"2001:db8::1"}`, want: "2001:db8::1"},
		{name: "non-2xx", status: http.StatusServiceUnavailable, body: `{"ip":"1.2.3.4"}`, wantErr: true},
		{name: "malformed json", status: http.StatusOK, body: `<html>`, wantErr: true},
		{name: "missing field", status: http.StatusOK, body: `{"address":"1.2.3.4"}`, wantErr: true},
		{name: "not an ip", status: http.StatusOK, body: `{"ip":"localhost"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "devicereport-test", r.Header.Get("User-Agent"))
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			r := NewIPResolver(ts.Client(), ts.URL, "devicereport-test")
			got, err := r.ResolveIP(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIPResolver_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := NewIPResolver(http.DefaultClient, url, "").ResolveIP(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
}

func TestGeoResolver_ResolveGeo(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"city":"Paris","country_name":"France","country":"FR","latitude":48.8566,"asn":"AS3215"}`)
	}))
	defer ts.Close()

	r := NewGeoResolver(ts.Client(), ts.URL+"/{ip}/json/", "")
	geo, err := r.ResolveGeo(context.Background(), "1.2.3.4")
	require.NoError(t, err)

	assert.Equal(t, "/1.2.3.4/json/", gotPath)
	assert.Equal(t, "1.2.3.4", geo.IP)
	assert.Equal(t, "Paris", geo.First("city"))
	assert.Equal(t, "48.8566", geo.First("latitude"))
	assert.Equal(t, domain.NotAvailable, geo.First("region"))
}

func TestGeoResolver_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":true,"reason":"RateLimited"}`},
		{name: "error body with 200", status: http.StatusOK, body: `{"ip":"unknown","error":true,"reason":"Invalid IP Address"}`},
		{name: "malformed", status: http.StatusOK, body: `not json`},
		{name: "array body", status: http.StatusOK, body: `[1,2,3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			geo, err := NewGeoResolver(ts.Client(), ts.URL+"/{ip}/json/", "").ResolveGeo(context.Background(), domain.Unknown)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
			assert.True(t, geo.Empty())
			assert.Equal(t, domain.Unknown, geo.IP)
		})
	}
}

func TestGeoResolver_URLEscapesIP(t *testing.T) {
	r := NewGeoResolver(nil, "https://geo.example/{ip}/json/", "")
	assert.Equal(t, "https://geo.example/2001:db8::1/json/", r.URL("2001:db8::1"))
	assert.Equal(t, "https://geo.example/a%2Fb/json/", r.URL("a/b"))
}
