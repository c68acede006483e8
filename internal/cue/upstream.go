package cue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxUpstreamBody caps how much of an upstream reply is relayed.
const maxUpstreamBody = 1 << 20

// Reply is a response relayed verbatim to the HTTP caller.
type Reply struct {
	Status      int
	ContentType string
	Body        []byte
}

// Upstream is the external cue engine.
type Upstream interface {
	Post(ctx context.Context, path string, body []byte) (*Reply, error)
}

// HTTPUpstream talks to a cue engine over HTTP.
type HTTPUpstream struct {
	baseURL string
	client  *http.Client
}

// NewHTTPUpstream creates an upstream client for baseURL.
func NewHTTPUpstream(baseURL string, timeout time.Duration) *HTTPUpstream {
	return &HTTPUpstream{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Post sends body to path and returns the reply whatever its status.
// Only transport failures are errors; they wrap ErrUpstream.
func (u *HTTPUpstream) Post(ctx context.Context, path string, body []byte) (*Reply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, fmt.Errorf("%w: reading reply: %w", ErrUpstream, err)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/json"
	}
	return &Reply{Status: resp.StatusCode, ContentType: ct, Body: data}, nil
}
