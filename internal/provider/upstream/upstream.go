// Package upstream holds the HTTP plumbing shared by the vendor adapters.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mandalnilabja/goatplan/internal/types"
)

// Options configures a vendor adapter.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Option mutates Options.
type Option func(*Options)

// WithBaseURL overrides the vendor API root (no trailing slash).
func WithBaseURL(baseURL string) Option {
	return func(o *Options) {
		if baseURL != "" {
			o.BaseURL = baseURL
		}
	}
}

// WithHTTPClient sets the client used for vendor calls.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		if client != nil {
			o.HTTPClient = client
		}
	}
}

// Apply resolves opts on top of the vendor's default base URL.
// The default client has no timeout; calls are bounded by their context.
func Apply(defaultBaseURL string, opts []Option) Options {
	o := Options{BaseURL: defaultBaseURL, HTTPClient: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// PostJSON encodes body as JSON, POSTs it to endpoint and returns the raw
// response body. A non-2xx status yields *types.ProviderRequestError carrying
// the response text; nothing is decoded in that case.
func PostJSON(ctx context.Context, client *http.Client, provider, endpoint string, headers map[string]string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		// *url.Error repeats the endpoint, which may carry a key in its query.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("%s request failed: %w", provider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Keep the status even when the error body is cut short.
		return nil, &types.ProviderRequestError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}
