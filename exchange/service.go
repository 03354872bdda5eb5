package exchange

import (
	"context"
	"fmt"
	"go-sol-display"
	"go-sol-display/format"
	"go-sol-display/rates"
)

// Service converts and renders contribution amounts
type Service interface {
	// Convert converts amount between two currencies at the static rates.
	Convert(ctx context.Context, amount display.Amount, from display.Currency, to display.Currency) (display.Exchanged, error)
	// Contribution renders a contribution for display.
	Contribution(ctx context.Context, amount display.Amount, currency display.Currency) (display.ContributionDisplay, error)
	// Drift compares the static USD rate of currency with the market reference.
	Drift(ctx context.Context, currency display.Currency) (display.Drift, error)
}

type service struct {
	// static rates used for every displayed conversion
	static rates.Service

	// reference market rates, nil when disabled
	reference rates.Service
}

// NewService constructs a valid Service. reference may be nil, in which case Drift fails with display.ErrNoReference.
func NewService(static rates.Service, reference rates.Service) Service {
	return &service{
		static:    static,
		reference: reference,
	}
}

// Convert computes a conversion from one currency to another with the static exchange rate.
func (s *service) Convert(ctx context.Context, amount display.Amount, from display.Currency, to display.Currency) (display.Exchanged, error) {
	if err := amount.Validate(); err != nil {
		return display.Exchanged{}, err
	}

	table, err := s.static.ExchangeRates(ctx, from)
	if err != nil {
		return display.Exchanged{}, fmt.Errorf("convert from [%v]: %w", from, err)
	}

	rate, ok := table[to]
	if !ok {
		return display.Exchanged{}, fmt.Errorf("convert to [%v]: %w", to, display.ErrUnknownCurrency)
	}

	result := display.Exchanged{
		Rate:   rate,
		Amount: display.Amount(float64(rate) * float64(amount)),
	}
	if err := result.Amount.Validate(); err != nil {
		return display.Exchanged{}, fmt.Errorf("convert [%v -> %v] overflows: %w", from, to, err)
	}

	return result, nil
}

func (s *service) Contribution(_ context.Context, amount display.Amount, currency display.Currency) (display.ContributionDisplay, error) {
	if err := amount.ValidateFor(currency); err != nil {
		return display.ContributionDisplay{}, err
	}
	if currency != display.NativeAsset && currency != display.StableToken {
		return display.ContributionDisplay{}, fmt.Errorf("contribution [%v]: %w", currency, display.ErrUnknownCurrency)
	}
	return format.FormatContribution(amount, currency), nil
}

// Drift reports how far the static USD rate is from the market. It never changes the static rate.
func (s *service) Drift(ctx context.Context, currency display.Currency) (display.Drift, error) {
	if s.reference == nil {
		return display.Drift{}, display.ErrNoReference
	}

	static, err := s.usdRate(ctx, s.static, currency)
	if err != nil {
		return display.Drift{}, fmt.Errorf("static rate: %w", err)
	}
	market, err := s.usdRate(ctx, s.reference, currency)
	if err != nil {
		return display.Drift{}, fmt.Errorf("market rate: %w", err)
	}
	if market <= 0 {
		return display.Drift{}, fmt.Errorf("market rate [%v]: non-positive quote %v", currency, market)
	}

	return display.Drift{
		Currency:  currency,
		Static:    static,
		Market:    market,
		Deviation: float64((static - market) / market * 100),
	}, nil
}

func (s *service) usdRate(ctx context.Context, source rates.Service, currency display.Currency) (display.Rate, error) {
	table, err := source.ExchangeRates(ctx, currency)
	if err != nil {
		return 0, fmt.Errorf("[%v]: %w", currency, err)
	}
	rate, ok := table[display.USD]
	if !ok {
		return 0, fmt.Errorf("[%v] no USD quote: %w", currency, display.ErrUnknownCurrency)
	}
	return rate, nil
}
