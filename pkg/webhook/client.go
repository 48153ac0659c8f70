// Package webhook delivers audit payloads to external webhook URLs. Delivery
// is fire-and-forget: the response body is discarded and failures are only
// reported to the caller for logging.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultTimeout = 10 * time.Second

// Client posts JSON payloads. Outbound posts are paced so a burst of
// lifecycle events cannot hammer the receiving end.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a webhook client allowing one post per second with a
// small burst.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// PostJSON posts the payload to the URL. A non-2xx response is an error; the
// body is not read.
func (c *Client) PostJSON(ctx context.Context, url string, payload any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("error waiting for rate limiter: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error posting webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
