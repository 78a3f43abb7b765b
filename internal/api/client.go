package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/appmarket/appship/internal/buildinfo"
	"github.com/appmarket/appship/internal/common"
	"github.com/appmarket/appship/internal/logging"
)

// Options tunes the transport behavior of a Client.
type Options struct {
	// Timeout bounds each HTTP request. Zero means 30s.
	Timeout time.Duration
	// MaxRetries is the number of additional attempts for idempotent
	// requests that fail with transport errors. Zero disables retries.
	MaxRetries uint64
}

// Client is an authenticated AppMarket API client. All methods speak JSON to
// the REST endpoints under the configured base URL; presigned uploads and
// asset downloads go through the transfer package instead, never through
// Client.
type Client struct {
	baseURL    string
	http       *http.Client
	tokens     *TokenSource
	log        logging.Logger
	maxRetries uint64

	// test seam
	newRequestID func() string
}

// New builds a Client for the API at baseURL. tokens may be nil, in which
// case requests go out unauthenticated (useful against local fakes).
func New(baseURL string, tokens *TokenSource, log logging.Logger, opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{Timeout: timeout},
		tokens:       tokens,
		log:          log,
		maxRetries:   opts.MaxRetries,
		newRequestID: uuid.NewString,
	}
}

// do executes one API call, decoding the response "data" member into out
// when out is non-nil, and returns the pagination cursor, if any.
//
// GET and DELETE are retried with exponential backoff when they fail with a
// transport-level error; mutations are never retried blindly.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) (string, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return "", fmt.Errorf("encode request: %w", err)
		}
		payload = b
	}

	idempotent := method == http.MethodGet || method == http.MethodDelete

	var next string
	attempt := func(ctx context.Context) error {
		n, err := c.once(ctx, method, u, payload, out)
		if err != nil {
			if idempotent && errors.Is(err, common.ErrorTransport) {
				c.log.Warn(ctx, "retrying request", "method", method, "path", path, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		next = n
		return nil
	}

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(200*time.Millisecond))
	if err := retry.Do(ctx, backoff, attempt); err != nil {
		return "", err
	}
	return next, nil
}

func (c *Client) once(ctx context.Context, method, u string, payload []byte, out any) (string, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "appship/"+buildinfo.Version())
	req.Header.Set(common.RequestIDHeader, c.newRequestID())

	if c.tokens != nil {
		bearer, err := c.tokens.Bearer()
		if err != nil {
			return "", fmt.Errorf("bearer token: %w", err)
		}
		req.Header.Set(common.AuthorizationHeader, "Bearer "+bearer)
	}

	c.log.Debug(ctx, "api request", "method", method, "url", req.URL.Path)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w: %w", method, req.URL.Path, common.ErrorTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", c.parseError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
		Next string          `json:"next"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return "", fmt.Errorf("decode response data: %w", err)
		}
	}
	return envelope.Next, nil
}

// parseError turns a non-2xx response into an *Error when the body carries
// the marketplace error envelope, or a transport error for opaque 5xx.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		apiErr := envelope.Errors[0]
		if apiErr.Status == 0 {
			apiErr.Status = resp.StatusCode
		}
		return &apiErr
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%s: %w", resp.Status, common.ErrorTransport)
	}
	return &Error{Status: resp.StatusCode, Code: "UNKNOWN", Title: resp.Status, Detail: strings.TrimSpace(string(body))}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) (string, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	_, err := c.do(ctx, http.MethodPost, path, nil, in, out)
	return err
}

func (c *Client) patchJSON(ctx context.Context, path string, in, out any) error {
	_, err := c.do(ctx, http.MethodPatch, path, nil, in, out)
	return err
}

func (c *Client) deleteResource(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}

// listAll follows pagination cursors until the collection is exhausted.
func listAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	var result []T
	for {
		var page []T
		next, err := c.getJSON(ctx, path, query, &page)
		if err != nil {
			return nil, err
		}
		result = append(result, page...)
		if next == "" {
			return result, nil
		}
		query.Set("cursor", next)
	}
}
