// Package market reads hourly import prices from a market price API.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/kilianp07/ecodispatch/auth"
	"github.com/kilianp07/ecodispatch/connectors"
	"github.com/kilianp07/ecodispatch/core/model"
)

// Client fetches a month's price schedule for one interconnect unit and
// caches it for the lifetime of the client.
type Client struct {
	baseURL string
	unit    string
	http    *http.Client
	auth    *auth.ClientCred

	mu    sync.Mutex
	cache map[model.Month]*Schedule
}

// New builds a client from the price source configuration.
func New(cfg connectors.Config, opts ...Option) (*Client, error) {
	cfg.SetDefaults()
	if _, err := url.Parse(cfg.URL); err != nil || cfg.URL == "" {
		return nil, fmt.Errorf("invalid market url %q", cfg.URL)
	}
	c := &Client{
		baseURL: cfg.URL,
		unit:    cfg.Unit,
		http:    &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
		cache:   make(map[model.Month]*Schedule),
	}
	if cfg.Auth.Enabled() {
		c.auth = auth.NewClientCred(cfg.Auth)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Price returns the price for hour in month.
func (c *Client) Price(ctx context.Context, month model.Month, hour model.Hour) (float64, error) {
	s, err := c.Schedule(ctx, month)
	if err != nil {
		return 0, err
	}
	p, ok := s.At(hour)
	if !ok {
		return 0, fmt.Errorf("%w: %s %s hour %d", connectors.ErrNoPrice, c.unit, month, hour)
	}
	return p, nil
}

// Schedule returns the hourly prices of month, fetching them on first use.
func (c *Client) Schedule(ctx context.Context, month model.Month) (*Schedule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.cache[month]; ok {
		return s, nil
	}
	s, err := c.fetch(ctx, month)
	if err != nil {
		return nil, err
	}
	c.cache[month] = s
	return s, nil
}

func (c *Client) fetch(ctx context.Context, month model.Month) (*Schedule, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	q := u.Query()
	q.Set("unit", c.unit)
	q.Set("month", string(month))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.auth != nil {
		if err := c.auth.SetAuthHeader(req); err != nil {
			return nil, fmt.Errorf("failed to set auth header: %w", err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	var s Schedule
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &s, nil
}
