package rates

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	display "go-sol-display"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCoinbaseService_ExchangeRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		assert.True(t, strings.HasSuffix(req.URL.String(), "/exchange-rates?currency=SOL"))
		response := `{
			"data": {
				"currency": "SOL",
				"rates": {
					"USD": "171.25",
					"USDC": "171.2"
				}
			}
		}`
		_, _ = rw.Write([]byte(response))
	}))
	defer server.Close()

	s := NewCoinbaseService(server.URL, 5*time.Second)

	rates, err := s.ExchangeRates(context.Background(), display.NativeAsset)

	require.NoError(t, err)
	assert.Equal(t, display.Rate(171.25), rates[display.USD])
	assert.Equal(t, display.Rate(171.2), rates[display.StableToken])
}

func TestCoinbaseService_ExchangeRatesBadValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		_, _ = rw.Write([]byte(`{"data":{"currency":"SOL","rates":{"USD":"lots"}}}`))
	}))
	defer server.Close()

	_, err := NewCoinbaseService(server.URL, 5*time.Second).ExchangeRates(context.Background(), display.NativeAsset)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bad rate value")
}

func TestCoinbaseService_ExchangeRatesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewCoinbaseService(server.URL, 5*time.Second).ExchangeRates(context.Background(), display.NativeAsset)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCoinbaseService_ExchangeRatesTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = rw.Write([]byte("{}"))
	}))
	defer server.Close()

	_, err := NewCoinbaseService(server.URL, 1*time.Millisecond).ExchangeRates(context.Background(), display.NativeAsset)

	assert.Error(t, err)
}

func TestNewCoinbaseService_DefaultUrl(t *testing.T) {
	s := NewCoinbaseService("", time.Second).(*coinbaseService)
	assert.Equal(t, "https://api.coinbase.com/v2", s.url)
}
