// Package format renders SOL and USD amounts for display.
//
// Every function is pure and safe for concurrent use. Amounts that are negative
// or not finite are treated as zero, including a SOL amount whose USD value
// overflows; callers that need to reject them should check
// display.Amount.ValidateFor first.
package format

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	display "go-sol-display"
)

// FormatCurrency renders a USD amount compactly: "$0", "$43", "$1.2K".
func FormatCurrency(amount display.Amount) string {
	f := sanitize(amount)
	if f == 0 {
		return "$0"
	}
	if f >= 1000 {
		return "$" + fixed(f/1000, 1) + "K"
	}
	return "$" + fixed(f, 0)
}

// FormatCurrencyPrecise renders a USD amount with two decimals and no abbreviation.
func FormatCurrencyPrecise(amount display.Amount) string {
	return "$" + fixed(sanitize(amount), 2)
}

// SolToUsd converts at the static display.SolToUsdRate.
func SolToUsd(sol display.Amount) display.Amount {
	return display.Amount(float64(sol) * float64(display.SolToUsdRate))
}

// FormatSol renders a SOL amount with three decimals, e.g. "1.000 SOL".
func FormatSol(amount display.Amount) string {
	return fixed(sanitize(amount), 3) + " " + string(display.NativeAsset)
}

// FormatContribution renders a contribution as a fiat primary line and a native secondary line.
// Any currency other than SOL is treated as the stable token, without conversion.
func FormatContribution(amount display.Amount, currency display.Currency) display.ContributionDisplay {
	if currency == display.NativeAsset {
		return display.ContributionDisplay{
			Primary:   FormatCurrencyPrecise(SolToUsd(amount)),
			Secondary: FormatSol(amount),
		}
	}
	return display.ContributionDisplay{
		Primary:   FormatCurrencyPrecise(amount),
		Secondary: fixed(sanitize(amount), 2) + " " + string(display.StableToken),
	}
}

// Compact reports the number shown by FormatCurrency, in the unit of its suffix.
func Compact(amount display.Amount) (value decimal.Decimal, thousands bool) {
	f := sanitize(amount)
	if f >= 1000 {
		return exact(f / 1000).Round(1), true
	}
	return exact(f).Round(0), false
}

func sanitize(amount display.Amount) float64 {
	f := float64(amount)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// fixed rounds the exact binary value of f half away from zero.
func fixed(f float64, places int32) string {
	return exact(f).StringFixed(places)
}

// exact returns the decimal expansion of f with no precision loss.
// f is m * 2^e with an integer m, and 2^-k == 5^k / 10^k.
func exact(f float64) decimal.Decimal {
	if f == 0 {
		return decimal.Zero
	}
	frac, e := math.Frexp(f)
	m := big.NewInt(int64(frac * (1 << 53)))
	e -= 53
	if e >= 0 {
		return decimal.NewFromBigInt(m.Lsh(m, uint(e)), 0)
	}
	k := int64(-e)
	pow := new(big.Int).Exp(big.NewInt(5), big.NewInt(k), nil)
	return decimal.NewFromBigInt(pow.Mul(pow, m), int32(-k))
}
