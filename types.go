package display

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Currency a currency code
type Currency string

const (
	// NativeAsset is the chain's base unit used for contributions.
	NativeAsset Currency = "SOL"
	// StableToken is a fiat-pegged token, assumed 1:1 with USD.
	StableToken Currency = "USDC"
	// USD is the fiat display unit. It is never a contribution currency.
	USD Currency = "USD"
)

// Amount a quantity of some currency. Valid amounts are finite and non-negative.
type Amount float64

// Rate an exchange rate
type Rate float64

// Rates maps a target currency to the rate from some source currency
type Rates map[Currency]Rate

// SolToUsdRate is a static approximation of the SOL price in USD. There is no live feed behind it.
const SolToUsdRate Rate = 156

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrNoReference     = errors.New("no reference rate source configured")
)

// Exchanged result of a conversion
type Exchanged struct {
	Rate   Rate
	Amount Amount
}

// ContributionDisplay is the pair of strings rendered for a contribution.
// Primary is always fiat, Secondary is in the contributed currency.
type ContributionDisplay struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Drift compares the static USD rate of a currency with a market quote.
type Drift struct {
	Currency  Currency `json:"currency"`
	Static    Rate     `json:"static"`
	Market    Rate     `json:"market"`
	Deviation float64  `json:"deviation"` // percent, positive when the static rate is above market
}

// ParseCurrency accepts a contribution currency code, case-insensitively.
func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(strings.ToUpper(strings.TrimSpace(s))); c {
	case NativeAsset, StableToken:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}
}

// Validate reports ErrInvalidAmount for negative or non-finite amounts.
func (a Amount) Validate() error {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, f)
	}
	return nil
}

// ValidateFor extends Validate for a contribution in currency: the USD value
// shown for a SOL amount must also be finite.
func (a Amount) ValidateFor(currency Currency) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if currency != NativeAsset {
		return nil
	}
	if usd := float64(a) * float64(SolToUsdRate); math.IsInf(usd, 0) {
		return fmt.Errorf("%w: %v SOL overflows in USD", ErrInvalidAmount, float64(a))
	}
	return nil
}
