package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/ecodispatch/connectors"
	"github.com/kilianp07/ecodispatch/core/dispatch"
	"github.com/kilianp07/ecodispatch/core/dispatch/logging"
	"github.com/kilianp07/ecodispatch/core/fleet"
	"github.com/kilianp07/ecodispatch/core/metrics"
	"github.com/kilianp07/ecodispatch/infra/mqtt"
)

// EnvPrefix marks environment variables overriding file settings:
// K_RECORDS__BACKEND=sqlite sets records.backend.
const EnvPrefix = "K_"

type Config struct {
	Fleet    fleet.Config      `json:"fleet"`
	Dispatch dispatch.Config   `json:"dispatch"`
	Records  logging.Config    `json:"records"`
	Metrics  metrics.Config    `json:"metrics"`
	MQTT     mqtt.Config       `json:"mqtt"`
	Pricing  connectors.Config `json:"pricing"`
	Sentry   SentryConfig      `json:"sentry"`
	API      APIConfig         `json:"api"`
	Report   ReportConfig      `json:"report"`
}

// Default returns a configuration built from defaults and environment
// overrides only.
func Default() (*Config, error) {
	return load(koanf.New("."))
}

// Load reads the configuration file at path, applies environment overrides,
// defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return load(k)
}

// LoadOptional behaves like Load but falls back to Default when the file
// does not exist.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default()
	}
	return Load(path)
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

func load(k *koanf.Koanf) (*Config, error) {
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Dispatch.SetDefaults()
	c.Records.SetDefaults()
	c.MQTT.SetDefaults()
	c.Pricing.SetDefaults()
	c.API.SetDefaults()
	c.Report.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Dispatch.Validate(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	if err := c.Records.Validate(); err != nil {
		return fmt.Errorf("records: %w", err)
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	if err := c.Pricing.Validate(); err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	if err := c.Sentry.Validate(); err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	return nil
}
