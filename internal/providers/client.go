// Package providers implements the clients for the three upstream content
// APIs and their normalization into the canonical shapes in
// internal/models. Each client owns an http.Client with a fixed timeout and
// sends a generic browser user agent; failures are wrapped, never retried.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rizkan1982/dado-stream/internal/cache"
)

// ErrNotFound indicates an empty upstream detail payload.
var ErrNotFound = errors.New("not found")

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// fetchBody issues a GET with the browser user agent and returns the raw body.
func fetchBody(ctx context.Context, client *http.Client, rawURL string, params url.Values) ([]byte, error) {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// fetchJSON fetches and decodes a JSON body into an untyped document.
func fetchJSON(ctx context.Context, client *http.Client, rawURL string, params url.Values) (interface{}, error) {
	body, err := fetchBody(ctx, client, rawURL, params)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return v, nil
}

// fetchJSONCached is fetchJSON with a read-through TTL cache keyed by the
// full request URL. Used for the list endpoints that every visitor hits.
func fetchJSONCached(ctx context.Context, client *http.Client, c *cache.Cache, rawURL string, params url.Values) (interface{}, error) {
	key := rawURL
	if len(params) > 0 {
		key = rawURL + "?" + params.Encode()
	}

	if body, ok := c.Get(key); ok {
		var v interface{}
		if err := json.Unmarshal(body, &v); err == nil {
			return v, nil
		}
		c.Invalidate(key)
	}

	body, err := fetchBody(ctx, client, rawURL, params)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	c.Set(key, body)
	return v, nil
}
