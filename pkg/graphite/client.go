// Package graphite delivers sensor readings to a Graphite-compatible
// ingestion endpoint as newline-delimited plaintext metric lines over
// authenticated HTTP. The client holds no state across calls: a failed
// delivery drops the cycle's readings, the next cycle's fresh readings
// supersede them.
package graphite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/keturiosakys/raspberry-temperature-monitoring/pkg/sensor"
)

const DefaultTimeout = 10 * time.Second

type Config struct {
	// Endpoint is the metrics ingestion URL.
	Endpoint string
	// APIKey authenticates delivery requests as a bearer token.
	APIKey string
	// Timeout bounds one delivery call so a hung connection cannot
	// stall future ticks.
	Timeout time.Duration
	Logger  *slog.Logger
}

type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

// New creates a delivery client using the given config.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %s: %w", cfg.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %s: scheme must be http or https", cfg.Endpoint)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   cfg.Logger,
	}, nil
}

// Report delivers the cycle's readings in one request. Any failure is
// returned as an error; the caller decides to log and move on.
func (c *Client) Report(ctx context.Context, readings []sensor.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	body := new(strings.Builder)
	for _, r := range readings {
		for _, m := range FromReading(r) {
			body.WriteString(m.String())
			body.WriteByte('\n')
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body.String()))
	if err != nil {
		return fmt.Errorf("building delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering metrics: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.logger.LogAttrs(ctx, slog.LevelDebug, "Delivered metrics",
			slog.Int("readings", len(readings)),
			slog.String("status", resp.Status))
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("metrics endpoint rejected credentials: %s", resp.Status)
	default:
		return fmt.Errorf("metrics endpoint returned %s", resp.Status)
	}
}
