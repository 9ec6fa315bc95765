package elastic

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchapi/internal/db"
	"github.com/kailas-cloud/searchapi/internal/metrics"
)

// Compile-time check: Client implements db.Engine.
var _ db.Engine = (*Client)(nil)

// maxBodyBytes caps how much of a response is read into memory.
const maxBodyBytes = 64 << 20

// Config holds connection parameters for an Elasticsearch cluster.
type Config struct {
	URL     string
	Timeout time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client implements db.Engine over the Elasticsearch REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates an Elasticsearch client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{baseURL: cfg.URL, http: hc, logger: logger}, nil
}

// Search POSTs body to {selector}/_search. allow_no_indices lets an
// exclusion-only selector match nothing instead of failing.
func (c *Client) Search(ctx context.Context, selector string, body []byte) ([]byte, error) {
	q := url.Values{"allow_no_indices": {"true"}}
	return c.do(ctx, db.OpSearch, http.MethodPost, "/"+selector+"/_search", q, body)
}

// CatIndices lists indexes matching pattern as JSON.
func (c *Client) CatIndices(ctx context.Context, pattern string) ([]byte, error) {
	q := url.Values{"format": {"json"}}
	return c.do(ctx, db.OpCatIndices, http.MethodGet, "/_cat/indices/"+pattern, q, nil)
}

// Ping checks that the cluster answers its root endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, db.OpPing, http.MethodGet, "/", nil, nil)
	return err
}

// WaitForReady pings with exponential backoff until the cluster responds or
// timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = timeout

	attempt := 0
	op := func() error {
		attempt++
		err := c.Ping(ctx)
		if err != nil {
			c.logger.Debug("elasticsearch not ready", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("%w after %d attempts: %w", db.ErrUnavailable, attempt, err)
	}
	return nil
}

func (c *Client) do(
	ctx context.Context, op, method, path string, query url.Values, body []byte,
) (_ []byte, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(metrics.ServiceElasticsearch, op, start, err) }()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &db.Error{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("elasticsearch response error",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", data),
		)
		return nil, &db.StatusError{Op: op, Status: resp.StatusCode, Body: data}
	}
	return data, nil
}
