package sacn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LevelsRequest is the body posted to a bridge's /levels endpoint.
type LevelsRequest struct {
	Universe int       `json:"universe"`
	Levels   []float64 `json:"levels"`
	Dest     string    `json:"dest,omitempty"`
}

// BridgeClient posts levels to a sacn-bridge.
type BridgeClient struct {
	baseURL string
	client  *http.Client
}

// NewBridgeClient creates a client for the bridge at baseURL.
func NewBridgeClient(baseURL string, timeout time.Duration) *BridgeClient {
	return &BridgeClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Post sends req and succeeds only on a 2xx reply.
func (c *BridgeClient) Post(ctx context.Context, req LevelsRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBridgeFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/levels", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBridgeFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBridgeFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrBridgeFailed, resp.StatusCode)
	}
	return nil
}
