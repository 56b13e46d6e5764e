// Package api is the typed client for the remote parking backend. Every call
// returns a Result; no error or panic escapes the package.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"parking-client/internal/metrics"

	"github.com/google/uuid"
)

// User-facing failure texts
const (
	MsgNetworkError    = "Network error: unable to reach server"
	MsgInvalidResponse = "Invalid response from server"
)

// Result is the uniform outcome of a backend call. Status is the HTTP status
// when a response arrived, 0 otherwise.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Status  int    `json:"-"`
}

// OK is a successful result
func OK() Result { return Result{Success: true} }

// Fail builds a failed result with a message
func Fail(msg string) Result { return Result{Success: false, Error: msg} }

// TokenSource yields the bearer token for the current session, or "" when
// there is none
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func(ctx context.Context) string

func (f TokenFunc) Token(ctx context.Context) string { return f(ctx) }

type Client struct {
	http    *http.Client
	baseURL string
	tokens  TokenSource
}

// NewClient creates a client for baseURL. A zero timeout leaves requests
// bounded only by the caller's context.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		tokens:  tokens,
	}
}

// SetTokenSource swaps the token source; used by the composition root once
// the session store exists
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// Do sends one request. body is JSON-encoded when non-nil; a 2xx response
// body is decoded into out when out is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) Result {
	return c.do(ctx, endpointLabel(path), "", method, path, body, out)
}

// doWithToken is Do with an explicit bearer token, for calls made before the
// session is published
func (c *Client) doWithToken(ctx context.Context, token, method, path string, body, out any) Result {
	return c.do(ctx, endpointLabel(path), token, method, path, body, out)
}

func (c *Client) do(ctx context.Context, endpoint, token, method, path string, body, out any) (res Result) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[API] panic during %s %s: %v", method, path, r)
			outcome = "network"
			res = Fail(MsgNetworkError)
		}
		metrics.APICallsTotal.WithLabelValues(endpoint, outcome).Inc()
		metrics.APICallDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			outcome = "encode"
			return Fail(fmt.Sprintf("failed to encode request: %v", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+strings.TrimPrefix(path, "/"), reader)
	if err != nil {
		outcome = "encode"
		return Fail(fmt.Sprintf("failed to build request: %v", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if token == "" && c.tokens != nil {
		token = c.tokens.Token(ctx)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "network"
		log.Printf("[API] %s %s failed: %v", method, path, err)
		return Fail(MsgNetworkError)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = "network"
		log.Printf("[API] %s %s: failed to read body: %v", method, path, err)
		return Result{Error: MsgNetworkError, Status: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "status"
		return Result{Error: serverMessage(raw, resp.StatusCode), Status: resp.StatusCode}
	}

	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			outcome = "decode"
			log.Printf("[API] %s %s: invalid JSON: %v", method, path, err)
			return Result{Error: MsgInvalidResponse, Status: resp.StatusCode}
		}
	}

	return Result{Success: true, Status: resp.StatusCode}
}

// serverMessage extracts "message" (or "error") from an error body
func serverMessage(raw []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if m := strings.TrimSpace(body.Message); m != "" {
			return m
		}
		if e, ok := body.Error.(string); ok && strings.TrimSpace(e) != "" {
			return strings.TrimSpace(e)
		}
	}
	return fmt.Sprintf("Request failed with status %d", status)
}

// endpointLabel keeps the first two path segments so ids and queries do not
// blow up metric cardinality ("api/getPrices/42?x" -> "api/getPrices")
func endpointLabel(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.SplitN(path, "/", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, "/")
}

// Ping reports whether the backend answers at all. Any HTTP response counts
// as reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
