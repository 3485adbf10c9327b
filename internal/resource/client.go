package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultCacheTTL is how long list/search/read responses stay fresh.
const DefaultCacheTTL = 300 * time.Second

// Client talks to one remote resource collection. Calls are spaced at least
// minInterval apart; read results are cached for cacheTTL.
type Client struct {
	collection string
	baseURL    string
	creds      *Credentials
	httpClient *http.Client

	minInterval time.Duration
	callMu      sync.Mutex
	lastCall    time.Time

	cache *readCache
}

// Option configures a Client.
type Option func(*Client)

// WithMinInterval sets the minimum spacing between calls on this client.
func WithMinInterval(d time.Duration) Option {
	return func(c *Client) { c.minInterval = d }
}

// WithCacheTTL sets how long read responses stay cached. Zero disables the
// cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cache = newReadCache(ttl) }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client for one collection endpoint.
func NewClient(collection, baseURL string, creds *Credentials, opts ...Option) *Client {
	c := &Client{
		collection: collection,
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		cache:      newReadCache(DefaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collection returns the collection name this client serves.
func (c *Client) Collection() string {
	return c.collection
}

// List fetches documents matching the query. Results are cached.
func (c *Client) List(ctx context.Context, q Query) (*Result, error) {
	return c.read(ctx, "list", q)
}

// Search is List under a different cache namespace, so warm-up listings and
// user-driven prefix searches do not evict each other.
func (c *Client) Search(ctx context.Context, q Query) (*Result, error) {
	return c.read(ctx, "search", q)
}

// Read fetches one document by identifier. Results are cached.
func (c *Client) Read(ctx context.Context, id string) (*Result, error) {
	if id == "" {
		return nil, &ValidationError{Collection: c.collection, Operation: "read", Message: "document id is required"}
	}

	key := "read:" + id
	if cached := c.cache.get(key); cached != nil {
		return cached, nil
	}

	result, err := c.do(ctx, "read", http.MethodGet, c.baseURL+"/"+id, nil, "")
	if err != nil {
		return nil, err
	}
	c.cache.put(key, result)
	return result, nil
}

// Create posts a new document. Never cached.
func (c *Client) Create(ctx context.Context, payload map[string]any) (*Result, error) {
	if len(payload) == 0 {
		return nil, &ValidationError{Collection: c.collection, Operation: "create", Message: "payload is required"}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ValidationError{Collection: c.collection, Operation: "create", Message: fmt.Sprintf("payload not serializable: %v", err)}
	}
	return c.do(ctx, "create", http.MethodPost, c.baseURL, body, "")
}

// Update patches one document. The version token is sent as an If-Match
// precondition; the service rejects the write with 412 if it is stale.
// Never cached, and no automatic retry.
func (c *Client) Update(ctx context.Context, id, version string, payload map[string]any) (*Result, error) {
	if id == "" {
		return nil, &ValidationError{Collection: c.collection, Operation: "update", Message: "document id is required"}
	}
	if version == "" {
		return nil, &ValidationError{Collection: c.collection, Operation: "update", Message: "version token is required"}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ValidationError{Collection: c.collection, Operation: "update", Message: fmt.Sprintf("payload not serializable: %v", err)}
	}
	return c.do(ctx, "update", http.MethodPatch, c.baseURL+"/"+id, body, version)
}

func (c *Client) read(ctx context.Context, operation string, q Query) (*Result, error) {
	key := operation + ":" + q.canonical()
	if cached := c.cache.get(key); cached != nil {
		return cached, nil
	}

	params, err := q.Encode()
	if err != nil {
		return nil, &ValidationError{Collection: c.collection, Operation: operation, Message: err.Error()}
	}
	endpoint := c.baseURL
	if params != "" {
		endpoint += "?" + params
	}

	result, err := c.do(ctx, operation, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return nil, err
	}
	c.cache.put(key, result)
	return result, nil
}

func (c *Client) do(ctx context.Context, operation, method, endpoint string, body []byte, version string) (*Result, error) {
	if err := c.waitTurn(ctx); err != nil {
		return nil, &TransportError{Collection: c.collection, Operation: operation, Cause: err}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &TransportError{Collection: c.collection, Operation: operation, Cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if version != "" {
		req.Header.Set("If-Match", version)
	}
	if c.creds != nil {
		c.creds.apply(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Collection: c.collection, Operation: operation, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Collection: c.collection, Operation: operation, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Collection: c.collection,
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}

	return &Result{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// waitTurn blocks until minInterval has elapsed since this client's previous
// call. The mutex is held across the sleep so concurrent callers queue up
// rather than stampede.
func (c *Client) waitTurn(ctx context.Context) error {
	if c.minInterval <= 0 {
		return nil
	}
	c.callMu.Lock()
	defer c.callMu.Unlock()

	wait := c.minInterval - time.Since(c.lastCall)
	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.lastCall = time.Now()
	return nil
}
