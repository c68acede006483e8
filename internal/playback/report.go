package playback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPReporter posts {"seconds": n} to a playhead-sync endpoint.
type HTTPReporter struct {
	url    string
	client *http.Client
}

// NewHTTPReporter creates a reporter for url. A nil client uses
// http.DefaultClient; request lifetime is bounded by the report context.
func NewHTTPReporter(url string, client *http.Client) *HTTPReporter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPReporter{url: url, client: client}
}

// ReportPosition implements PositionReporter.
func (r *HTTPReporter) ReportPosition(ctx context.Context, seconds float64) error {
	body, err := json.Marshal(map[string]float64{"seconds": seconds})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReportFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReportFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReportFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrReportFailed, resp.StatusCode)
	}
	return nil
}

// ReporterFunc adapts a function to PositionReporter.
type ReporterFunc func(ctx context.Context, seconds float64) error

// ReportPosition calls f.
func (f ReporterFunc) ReportPosition(ctx context.Context, seconds float64) error {
	return f(ctx, seconds)
}
