package exchange

import (
	"context"
	"github.com/go-kit/log"
	"go-sol-display"
	"time"
)

// loggingService decorates an exchange.Service with logging
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService returns a new instance of a logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Convert(ctx context.Context, amount display.Amount, from display.Currency, to display.Currency) (ex display.Exchanged, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "convert",
			"amount", amount,
			"from", from,
			"to", to,
			"rate", ex.Rate,
			"converted_amount", ex.Amount,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Convert(ctx, amount, from, to)
}

func (s *loggingService) Contribution(ctx context.Context, amount display.Amount, currency display.Currency) (d display.ContributionDisplay, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "contribution",
			"amount", amount,
			"currency", currency,
			"primary", d.Primary,
			"secondary", d.Secondary,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Contribution(ctx, amount, currency)
}

func (s *loggingService) Drift(ctx context.Context, currency display.Currency) (d display.Drift, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "drift",
			"currency", currency,
			"static", d.Static,
			"market", d.Market,
			"deviation", d.Deviation,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Drift(ctx, currency)
}
