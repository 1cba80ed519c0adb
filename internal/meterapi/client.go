package meterapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"meterwatch/internal/models"
)

// Client wraps the external telemetry service's read-only query endpoint.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient returns client wrapper. baseURL has no trailing slash.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Latest fetches the most recent reading snapshot for a meter.
func (c *Client) Latest(ctx context.Context, meterCode, pin string) (*models.LatestPayload, error) {
	endpoint := fmt.Sprintf("%s/api/meter/%s/latest?pin=%s",
		c.baseURL, url.PathEscape(meterCode), url.QueryEscape(pin))

	var payload models.LatestPayload
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Recent fetches the last readings for a meter, newest first.
func (c *Client) Recent(ctx context.Context, meterCode, pin string, limit int) (*models.RecentPayload, error) {
	endpoint := fmt.Sprintf("%s/api/meter/%s/recent?pin=%s&limit=%d",
		c.baseURL, url.PathEscape(meterCode), url.QueryEscape(pin), limit)

	var payload models.RecentPayload
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.logger.Warn("meter api returned non-success", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("meter api status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("meter api decode: %w", err)
	}
	return nil
}
