package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/museummap/pkg/buildinfo"
	"github.com/matzehuels/museummap/pkg/observability"
)

// maxBodySize bounds response bodies read by [PostJSON].
const maxBodySize = 4 << 20

// Response is a buffered HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// PostJSON marshals payload, POSTs it to rawURL and buffers the response.
// Non-2xx responses are returned without error; transport failures are
// returned as errors. Every request is reported to observability.HTTP().
func PostJSON(ctx context.Context, client *http.Client, rawURL string, payload any) (*Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	host, path := splitURL(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodPost, host, path)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodPost, host, path, err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		hooks.OnError(ctx, http.MethodPost, host, path, err)
		return nil, fmt.Errorf("read response: %w", err)
	}
	hooks.OnResponse(ctx, http.MethodPost, host, path, resp.StatusCode, time.Since(start))

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func splitURL(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, u.Path
}
