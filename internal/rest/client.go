package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	log "github.com/sirupsen/logrus"
)

const contentTypeJSON = "application/json;charset=utf-8"

// Client executes one HTTP request per call against the server's versioned
// API and decodes JSON responses into caller-supplied types. It holds the
// current bearer token; base URL and http.Client are fixed at construction
// and owned by whoever creates the client.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for the given base URL (including the
// versioned path prefix, e.g. https://host/api/v1). A nil httpClient
// falls back to http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken stores the bearer token attached to authorized requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Get(ctx context.Context, path, query string, authorized bool, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, authorized, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, authorized bool, out any) error {
	return c.do(ctx, http.MethodPost, path, "", body, authorized, out)
}

func (c *Client) Patch(ctx context.Context, path string, body any, authorized bool, out any) error {
	return c.do(ctx, http.MethodPatch, path, "", body, authorized, out)
}

func (c *Client) Delete(ctx context.Context, path, query string, authorized bool, out any) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, authorized, out)
}

// do builds and executes a single request. Query is a pre-joined
// key=value&key=value string; callers assemble valid query strings
// themselves. A non-2xx status maps to a ServiceError by status code
// alone, a 2xx body that does not decode into out yields KindDecoding,
// and any lower-level failure yields KindTransport wrapping the cause.
// There is no retry and no cancellation beyond ctx.
func (c *Client) do(
	ctx context.Context,
	method, path, query string,
	body any,
	authorized bool,
	out any,
) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return TransportError(fmt.Errorf("parse url %q: %w", c.baseURL+path, err))
	}
	if query != "" {
		u.RawQuery = query
	}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &ServiceError{Kind: KindUnknown, cause: fmt.Errorf("encode request body: %w", err)}
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return TransportError(fmt.Errorf("build request: %w", err))
	}

	req.Header.Set("Content-Type", contentTypeJSON)
	if authorized {
		req.Header.Set("Authorization", "Bearer "+c.Token())
	}

	log.Tracef("%s %s", method, u.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TransportError(fmt.Errorf("http client do: %w", err))
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return TransportError(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debugf("%s %s: status %d", method, path, resp.StatusCode)
		return StatusError(resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		return DecodingError(fmt.Errorf("unmarshal response: %w", err))
	}

	return nil
}
