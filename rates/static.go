package rates

import (
	"context"
	"fmt"
	display "go-sol-display"
)

// staticService serves a fixed rate table derived from display.SolToUsdRate.
// USDC is pegged 1:1 to USD.
type staticService struct {
	table map[display.Currency]display.Rates
}

// NewStaticService returns the rate source used for every conversion shown to users.
func NewStaticService() Service {
	sol := display.SolToUsdRate
	return &staticService{
		table: map[display.Currency]display.Rates{
			display.NativeAsset: {
				display.NativeAsset: 1,
				display.StableToken: sol,
				display.USD:         sol,
			},
			display.StableToken: {
				display.NativeAsset: 1 / sol,
				display.StableToken: 1,
				display.USD:         1,
			},
			display.USD: {
				display.NativeAsset: 1 / sol,
				display.StableToken: 1,
				display.USD:         1,
			},
		},
	}
}

// ExchangeRates returns a copy of the fixed rates from currency.
func (s *staticService) ExchangeRates(_ context.Context, currency display.Currency) (display.Rates, error) {
	rates, ok := s.table[currency]
	if !ok {
		return nil, fmt.Errorf("static rates [%v]: %w", currency, display.ErrUnknownCurrency)
	}
	out := make(display.Rates, len(rates))
	for k, v := range rates {
		out[k] = v
	}
	return out, nil
}
