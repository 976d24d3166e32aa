package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `fleet:
  enable_interconnect: true
  strict_hydro_table: true
dispatch:
  mini_hydro_wet_factor: 0.6
  block_group:
    ceiling_mw: 400
    step_mw: 200
    min_block_mw: 150
records:
  backend: sqlite
  path: /tmp/runs.db
metrics:
  prometheus_port: ":9100"
  sinks:
    - type: "prometheus"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  topic_prefix: "lk/ceb"
  qos: 1
api:
  addr: ":9090"
  token: "secret"
report:
  output_dir: "reports"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Fleet.EnableInterconnect)
	assert.True(t, cfg.Fleet.StrictHydroTable)
	assert.Equal(t, 0.6, cfg.Dispatch.MiniHydroWetFactor)
	assert.Equal(t, 400.0, cfg.Dispatch.BlockGroup.CeilingMW)
	assert.Equal(t, 150.0, cfg.Dispatch.BlockGroup.MinBlockMW)
	assert.Equal(t, "sqlite", cfg.Records.Backend)
	assert.Equal(t, "/tmp/runs.db", cfg.Records.Path)
	assert.True(t, cfg.Metrics.PrometheusEnabled())
	assert.Equal(t, ":9100", cfg.Metrics.PrometheusPort)
	assert.Equal(t, "lk/ceb", cfg.MQTT.TopicPrefix)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, ":9090", cfg.API.Addr)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, "reports", cfg.Report.OutputDir)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"records":{"backend":"jsonl_rotating","path":"runs.jsonl","max_size_mb":5}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "jsonl_rotating", cfg.Records.Backend)
	assert.Equal(t, 5, cfg.Records.MaxSizeMB)
}

func TestDefaults(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "jsonl", cfg.Records.Backend)
	assert.Equal(t, 600.0, cfg.Dispatch.BlockGroup.CeilingMW)
	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, ".", cfg.Report.OutputDir)
	assert.False(t, cfg.MQTT.Enabled)
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "jsonl", cfg.Records.Backend)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("K_RECORDS__BACKEND", "sqlite")
	t.Setenv("K_API__TOKEN", "from-env")
	t.Setenv("K_FLEET__ENABLE_INTERCONNECT", "true")
	path := writeFile(t, "config.yaml", "records:\n  backend: jsonl\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Records.Backend)
	assert.Equal(t, "from-env", cfg.API.Token)
	assert.True(t, cfg.Fleet.EnableInterconnect)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", ""))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "config.yaml", "records:\n  backend: csv\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "config.yaml", "dispatch:\n  mini_hydro_wet_factor: 2\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "config.yaml", "mqtt:\n  enabled: true\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "config.yaml", "sentry:\n  traces_sample_rate: 3\n"))
	assert.Error(t, err)
}

func TestPricingSection(t *testing.T) {
	path := writeFile(t, "config.yaml", `pricing:
  source: market
  url: https://prices.example.lk/api/v1/interconnect
  auth:
    client_id: ecodispatch
    client_secret: s3cret
    token_url: https://auth.example.lk/token
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "market", cfg.Pricing.Source)
	assert.Equal(t, "Indian Link", cfg.Pricing.Unit)
	assert.Equal(t, "ecodispatch", cfg.Pricing.Auth.ClientID)
	assert.True(t, cfg.Pricing.Auth.Enabled())

	bad := writeFile(t, "bad.yaml", "pricing:\n  source: market\n")
	_, err = Load(bad)
	assert.ErrorContains(t, err, "pricing")
}
