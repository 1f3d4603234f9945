package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bft-labs/devicereport/internal/domain"
	"github.com/bft-labs/devicereport/internal/ports"
)

// WebhookSender implements ports.ReportSender by POSTing the JSON envelope
// to a webhook URL.
type WebhookSender struct {
	client    ports.HTTPClient
	url       string
	userAgent string
}

// NewWebhookSender creates a sender for the given webhook URL.
func NewWebhookSender(client ports.HTTPClient, url, userAgent string) *WebhookSender {
	return &WebhookSender{client: client, url: url, userAgent: userAgent}
}

// Send validates and POSTs payload once. Rejections carry the status code
// and a best-effort read of the response body.
func (s *WebhookSender) Send(ctx context.Context, payload domain.Payload) (int, error) {
	body, err := encodeEnvelope(payload)
	if err != nil {
		return 0, &domain.DeliveryError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return 0, &domain.DeliveryError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, &domain.DeliveryError{Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		text := string(respBody)
		if readErr != nil && text == "" {
			text = "(no body)"
		}
		return resp.StatusCode, &domain.DeliveryError{StatusCode: resp.StatusCode, Body: text}
	}
	return resp.StatusCode, nil
}

// DryRunSender implements ports.ReportSender by writing the validated
// envelope to w instead of sending it.
type DryRunSender struct {
	w io.Writer
}

// NewDryRunSender creates a sender that prints payloads to w.
func NewDryRunSender(w io.Writer) *DryRunSender {
	return &DryRunSender{w: w}
}

// Send writes the indented envelope. It reports status 0 on success.
func (s *DryRunSender) Send(ctx context.Context, payload domain.Payload) (int, error) {
	body, err := encodeEnvelope(payload)
	if err != nil {
		return 0, &domain.DeliveryError{Err: err}
	}
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return 0, &domain.DeliveryError{Err: err}
	}
	out.WriteByte('\n')
	if _, err := s.w.Write(out.Bytes()); err != nil {
		return 0, &domain.DeliveryError{Err: fmt.Errorf("write payload: %w", err)}
	}
	return 0, nil
}

func encodeEnvelope(payload domain.Payload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	if err := ValidateEnvelope(body); err != nil {
		return nil, err
	}
	return body, nil
}

var (
	_ ports.ReportSender = (*WebhookSender)(nil)
	_ ports.ReportSender = (*DryRunSender)(nil)
)
