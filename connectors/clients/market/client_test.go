package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/ecodispatch/auth"
	"github.com/kilianp07/ecodispatch/connectors"
)

const scheduleJSON = `{"unit":"Indian Link","month":"jan","currency":"LKR",
"prices":[{"hour":19,"price":38.5},{"hour":12,"price":24}]}`

func TestClientPrice(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "Indian Link", r.URL.Query().Get("unit"))
		assert.Equal(t, "jan", r.URL.Query().Get("month"))
		_, _ = w.Write([]byte(scheduleJSON))
	}))
	defer srv.Close()

	c, err := New(connectors.Config{Source: "market", URL: srv.URL})
	require.NoError(t, err)

	p, err := c.Price(context.Background(), "jan", 19)
	require.NoError(t, err)
	assert.Equal(t, 38.5, p)

	p, err = c.Price(context.Background(), "jan", 12)
	require.NoError(t, err)
	assert.Equal(t, 24.0, p)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "schedule should be cached per month")

	_, err = c.Price(context.Background(), "jan", 3)
	assert.True(t, errors.Is(err, connectors.ErrNoPrice))
}

func TestClientUsesOAuthToken(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(scheduleJSON))
	}))
	defer srv.Close()

	c, err := New(connectors.Config{
		Source: "market",
		URL:    srv.URL,
		Auth:   auth.Conf{ClientID: "id", ClientSecret: "s", TokenURL: tokenSrv.URL},
	}, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	p, err := c.Price(context.Background(), "jan", 19)
	require.NoError(t, err)
	assert.Equal(t, 38.5, p)
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	c, err := New(connectors.Config{Source: "market", URL: srv.URL})
	require.NoError(t, err)
	_, err = c.Price(context.Background(), "feb", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(connectors.Config{Source: "market"})
	assert.Error(t, err)
}

func TestPriceChartHTML(t *testing.T) {
	s := &Schedule{Unit: "Indian Link", Month: "jan", Prices: []HourPrice{{Hour: 19, Price: 38.5}, {Hour: 12, Price: 24}}}
	assert.Equal(t, 12, s.Sorted()[0].Hour)
	html, err := s.PriceChartHTML()
	require.NoError(t, err)
	assert.Contains(t, html, "Indian Link price, Jan")
	assert.Contains(t, html, "12 noon")
}
