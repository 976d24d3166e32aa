package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/ecodispatch/config"
	"github.com/kilianp07/ecodispatch/core/dispatch/logging"
	"github.com/kilianp07/ecodispatch/core/factory"
	"github.com/kilianp07/ecodispatch/core/model"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Records.Backend = "sqlite"
	cfg.Records.Path = filepath.Join(t.TempDir(), "runs.db")
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "nop"}}
	cfg.API.Addr = "127.0.0.1:0"
	return cfg
}

func TestServiceDispatchPersists(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer func() { assert.NoError(t, svc.Close()) }()

	req, err := model.ParseRequest(700, "jan", 12, 0)
	require.NoError(t, err)
	rec, err := svc.Manager.Run(context.Background(), req)
	require.NoError(t, err)

	got, err := svc.Store.Query(context.Background(), logging.LogQuery{Month: "jan"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
}

func TestServiceHandler(t *testing.T) {
	cfg := testConfig(t)
	cfg.API.Token = "tok"
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, svc.Close()) }()

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/dispatch?demand=50&month=jan&hour=12", nil)
	r.Header.Set("Authorization", "Bearer tok")
	svc.Handler().ServeHTTP(rr, r)
	require.Equal(t, http.StatusOK, rr.Code)
	var rec logging.LogRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Equal(t, 50.0, rec.Result.PerUnit["Victoria"])
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer func() { assert.NoError(t, svc.Close()) }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}
}

func TestNewRejectsUnknownSink(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "graphite"}}
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestServiceMarketPrice(t *testing.T) {
	market := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unit":"Indian Link","month":"jan","prices":[{"hour":19,"price":41.25}]}`))
	}))
	defer market.Close()

	cfg := testConfig(t)
	cfg.Pricing.Source = "market"
	cfg.Pricing.URL = market.URL
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, svc.Close()) }()
	require.NotNil(t, svc.Prices)

	req, err := model.ParseRequest(900, "jan", 19, 0)
	require.NoError(t, err)
	rec, err := svc.Manager.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 41.25, rec.Request.IndianLinkPrice)
}
