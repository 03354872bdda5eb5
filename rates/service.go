package rates

import (
	"context"
	display "go-sol-display"
)

// Service looks up exchange rates from one currency to every currency it knows.
// Implementations must be safe for concurrent use and return rates that are safe for concurrent reads.
type Service interface {
	ExchangeRates(ctx context.Context, currency display.Currency) (display.Rates, error)
}
