package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fwojciec/humdesk"
	"github.com/fwojciec/humdesk/sse"
)

// Complete streams the assistant's answer to req.Message, invoking onToken
// once per token in arrival order. It returns nil when the stream reaches its
// terminal marker or ends, a [*humdesk.StreamError] on an in-band error, a
// [*humdesk.StatusError] when the server refuses the request, and ctx.Err()
// when cancelled.
func (c *Client) Complete(ctx context.Context, req humdesk.CompletionRequest, onToken humdesk.TokenFunc) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	body, err := json.Marshal(apiCompleteRequest{Message: req.Message})
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, completeStreamPath, nil, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return parseHTTPError(resp)
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return fmt.Errorf("http: empty stream: %w", &humdesk.StatusError{Code: resp.StatusCode})
	}

	return sse.NewReader(onToken).Consume(ctx, resp.Body)
}
