// Package connectors fetches market inputs for a dispatch, such as the
// Indian Link import price, from external sources.
package connectors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kilianp07/ecodispatch/auth"
	"github.com/kilianp07/ecodispatch/core/model"
)

const (
	SourceNone   = "none"
	SourceStatic = "static"
	SourceMarket = "market"

	DefaultUnit      = "Indian Link"
	DefaultTimeoutMS = 5000
)

// ErrNoPrice is returned when a source has no price for the requested hour.
var ErrNoPrice = errors.New("no price available")

// PriceSource returns an import price in LKR/kWh for a month and hour.
type PriceSource interface {
	Price(ctx context.Context, month model.Month, hour model.Hour) (float64, error)
}

// Config selects and configures the price source.
type Config struct {
	Source      string    `json:"source"`
	StaticPrice float64   `json:"static_price"`
	URL         string    `json:"url"`
	Unit        string    `json:"unit"`
	TimeoutMS   int       `json:"timeout_ms"`
	Auth        auth.Conf `json:"auth"`
}

func (c *Config) SetDefaults() {
	if c.Source == "" {
		c.Source = SourceNone
	}
	if c.Unit == "" {
		c.Unit = DefaultUnit
	}
	if c.TimeoutMS <= 0 {
		c.TimeoutMS = DefaultTimeoutMS
	}
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Source) {
	case "", SourceNone:
	case SourceStatic:
		if c.StaticPrice < 0 {
			return fmt.Errorf("static_price must not be negative")
		}
	case SourceMarket:
		if c.URL == "" {
			return fmt.Errorf("url required for market source")
		}
	default:
		return fmt.Errorf("unknown price source %q", c.Source)
	}
	return c.Auth.Validate()
}

// StaticPrice always returns the same price.
type StaticPrice float64

func (p StaticPrice) Price(context.Context, model.Month, model.Hour) (float64, error) {
	return float64(p), nil
}
