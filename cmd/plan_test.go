package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("records:\n  backend: none\n"), 0o644))
	profile := filepath.Join(dir, "day.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("month: jan\nhours:\n  - hour: 12\n    demand_mw: 50\n  - hour: 19\n    demand_mw: 700\n"), 0o644))
	t.Cleanup(func() { planOpts.format = "text" })

	out, err := execute(t, "plan", "--config", cfgFile, "--profile", profile, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "hour,unit,category,mw,hourly_cost_lkr")
	assert.Contains(t, out, "12,Victoria,hydro,50,")
}

func TestPricesCommandStatic(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	cfgData := "records:\n  backend: none\npricing:\n  source: static\n  static_price: 33.5\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfgData), 0o644))
	chart := filepath.Join(dir, "prices.html")
	t.Cleanup(func() { pricesOpts.chart = "" })

	out, err := execute(t, "prices", "--config", cfgFile, "--month", "aug", "--chart", chart)
	require.NoError(t, err)
	assert.Contains(t, out, "12 midnight")
	assert.Contains(t, out, "33.50")
	_, err = os.Stat(chart)
	assert.NoError(t, err)
}

func TestPricesCommandWithoutSource(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("records:\n  backend: none\n"), 0o644))
	_, err := execute(t, "prices", "--config", cfgFile, "--month", "aug")
	assert.Error(t, err)
}
