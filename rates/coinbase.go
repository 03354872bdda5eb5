package rates

import (
	"context"
	"encoding/json"
	"fmt"
	display "go-sol-display"
	"io"
	"net/http"
	"strconv"
	"time"
)

const coinbaseUrlBase = "https://api.coinbase.com/v2"

// coinbaseService reads market rates from the Coinbase REST API.
// They are a reference only; nothing shown to users is converted with them.
type coinbaseService struct {
	// url base API url
	url string

	// client for HTTP requests
	client http.Client
}

// NewCoinbaseService constructs a Coinbase backed Service. An empty url selects the public API.
func NewCoinbaseService(url string, timeout time.Duration) Service {
	if url == "" {
		url = coinbaseUrlBase
	}
	return &coinbaseService{
		url: url,
		client: http.Client{
			Timeout: timeout,
		},
	}
}

// ExchangeRates loads the current market rates for a given currency.
// Coinbase rates change every minute.
func (s *coinbaseService) ExchangeRates(ctx context.Context, currency display.Currency) (display.Rates, error) {
	var response struct {
		Data struct {
			Rates map[string]string `json:"rates"` // quoted decimals keyed by currency code
		} `json:"data"`
	}

	url := fmt.Sprintf("%v/exchange-rates?currency=%v", s.url, currency)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building http request: %w", err)
	}
	httpResponse, err := s.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http get: unexpected status %d", httpResponse.StatusCode)
	}

	bytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("reading json: %w", err)
	}

	err = json.Unmarshal(bytes, &response)
	if err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}

	rates := display.Rates{}
	for k, v := range response.Data.Rates {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("bad rate value: %w", err)
		}
		rates[display.Currency(k)] = display.Rate(f)
	}

	return rates, nil
}
