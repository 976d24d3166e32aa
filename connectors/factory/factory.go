package factory

import (
	"fmt"
	"strings"

	"github.com/kilianp07/ecodispatch/connectors"
	"github.com/kilianp07/ecodispatch/connectors/clients/market"
)

// NewPriceSource builds the configured price source. It returns nil when
// no source is configured.
func NewPriceSource(cfg connectors.Config) (connectors.PriceSource, error) {
	switch strings.ToLower(cfg.Source) {
	case "", connectors.SourceNone:
		return nil, nil
	case connectors.SourceStatic:
		return connectors.StaticPrice(cfg.StaticPrice), nil
	case connectors.SourceMarket:
		return market.New(cfg)
	default:
		return nil, fmt.Errorf("unknown price source: %s", cfg.Source)
	}
}
