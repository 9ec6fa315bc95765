// Package kbase holds JSON-RPC 1.1 clients for the workspace and user
// profile services.
package kbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/kailas-cloud/searchapi/internal/metrics"
)

const maxResponseBytes = 16 << 20

// Config holds the connection settings of one upstream service.
type Config struct {
	URL     string
	Timeout time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// callError is a failed call: a non-2xx status, an undecodable body or a
// JSON-RPC error object. Message is the upstream error.message when present.
type callError struct {
	Status  int
	Body    string
	Message string
	Err     error
}

func (e *callError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("status %d: %s", e.Status, e.Body)
	}
}

func (e *callError) Unwrap() error { return e.Err }

// detail is the text surfaced to callers: the upstream message if parseable,
// else the raw body, else the transport error.
func (e *callError) detail() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Body != "" {
		return e.Body
	}
	return e.Error()
}

type rpcRequest struct {
	Version string `json:"version"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Name    string `json:"name"`
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type rpcClient struct {
	url     string
	service string
	http    *http.Client
	seq     atomic.Uint64
}

func newRPCClient(cfg Config, service string) *rpcClient {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &rpcClient{url: cfg.URL, service: service, http: hc}
}

// call posts one JSON-RPC 1.1 request and decodes result (an array) into out.
// An empty token sends no Authorization header.
func (c *rpcClient) call(ctx context.Context, token, method string, params []any, out any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(c.service, method, start, err) }()

	payload, err := json.Marshal(rpcRequest{
		Version: "1.1",
		ID:      strconv.FormatUint(c.seq.Add(1), 10),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return &callError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &callError{Err: fmt.Errorf("%s: %w", method, err)}
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &callError{Status: resp.StatusCode, Err: fmt.Errorf("%s: read body: %w", method, err)}
	}

	var parsed rpcResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	decodeErr := dec.Decode(&parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || parsed.Error != nil {
		ce := &callError{Status: resp.StatusCode, Body: string(body)}
		if decodeErr == nil && parsed.Error != nil {
			ce.Message = parsed.Error.Message
		}
		return ce
	}
	if decodeErr != nil {
		return &callError{Status: resp.StatusCode, Body: string(body), Err: fmt.Errorf("%s: decode: %w", method, decodeErr)}
	}

	if out == nil {
		return nil
	}
	dec = json.NewDecoder(bytes.NewReader(parsed.Result))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return &callError{Status: resp.StatusCode, Body: string(body), Err: fmt.Errorf("%s: decode result: %w", method, err)}
	}
	return nil
}
