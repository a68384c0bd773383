package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/humdesk"
	"github.com/rs/zerolog"
)

// Interface compliance checks.
var (
	_ humdesk.Completer           = (*Client)(nil)
	_ humdesk.Uploader            = (*Client)(nil)
	_ humdesk.ConversationService = (*Client)(nil)
	_ humdesk.DocumentService     = (*Client)(nil)
	_ humdesk.DriveService        = (*Client)(nil)
	_ humdesk.HumdataService      = (*Client)(nil)
)

// maxErrorBody bounds how much of an error response is read for its detail.
const maxErrorBody = 4 << 10

// Client talks to the assistant backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger for request and upload events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		logger:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the API base URL the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, u, body)
}

// do sends req and logs the exchange. Status handling is left to callers.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("http_request")
		return nil, err
	}

	event := c.logger.Debug()
	if resp.StatusCode >= 500 {
		event = c.logger.Error()
	} else if resp.StatusCode >= 400 {
		event = c.logger.Warn()
	}
	event.
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("http_request")
	return resp, nil
}

// send performs a JSON round trip. A nil in sends no body; a nil out
// discards the response body.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("http: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return parseHTTPError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("http: decode %s %s: %w", method, path, err)
	}
	return nil
}

// open performs a GET and returns the raw body for streaming downloads.
func (c *Client) open(ctx context.Context, path string, query url.Values) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	if !success(resp.StatusCode) {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	return resp.Body, nil
}

func success(code int) bool {
	return code >= 200 && code < 300
}

// parseHTTPError turns a non-success response into a [humdesk.StatusError],
// keeping FastAPI's "detail" text when present.
func parseHTTPError(resp *http.Response) error {
	statusErr := &humdesk.StatusError{Code: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("http: %w", statusErr)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || len(apiErr.Detail) == 0 {
		return fmt.Errorf("http: %w: %s", statusErr, strings.TrimSpace(string(body)))
	}
	var detail string
	if err := json.Unmarshal(apiErr.Detail, &detail); err != nil {
		detail = string(apiErr.Detail)
	}
	return fmt.Errorf("http: %w: %s", statusErr, detail)
}
