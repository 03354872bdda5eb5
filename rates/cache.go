package rates

import (
	"context"
	"fmt"
	"github.com/go-kit/log"
	display "go-sol-display"
	"sync"
	"time"
)

// cachingService decorates a Service with a cache of exchange rates.
// The cachingService is concurrency safe and will periodically refresh cached values.
type cachingService struct {
	// next the service being decorated with a cache
	next Service

	// cache the cache of rates
	cache map[display.Currency]display.Rates

	// updateFrequency how often to refresh cached values
	updateFrequency time.Duration

	// lock synchronizes access to cache to make it concurrency safe
	lock sync.RWMutex

	// lifetime bounds the refresh loops; when it is done cached entries are dropped
	lifetime context.Context

	logger log.Logger
}

// NewCachingService returns a new caching Service.
// Refresh loops stop, and the cache empties, once lifetime is done.
func NewCachingService(lifetime context.Context, updateFrequency time.Duration, logger log.Logger, s Service) Service {
	return &cachingService{
		lifetime:        lifetime,
		next:            s,
		cache:           map[display.Currency]display.Rates{},
		updateFrequency: updateFrequency,
		logger:          logger,
	}
}

// ExchangeRates looks up exchange rates and caches the results
func (s *cachingService) ExchangeRates(ctx context.Context, currency display.Currency) (display.Rates, error) {
	s.lock.RLock()
	rates, ok := s.cache[currency]
	s.lock.RUnlock()

	if ok {
		return rates, nil
	}

	// Concurrent misses for the same currency may each refresh; refreshNow reports
	// which of them stored the entry first so only one refresh loop is started.
	rates, firstTime, err := s.refreshNow(ctx, currency)
	if err != nil {
		return nil, fmt.Errorf("refreshing cache [%v]: %w", currency, err)
	}
	if firstTime {
		s.logger.Log("msg", "scheduling periodic refresh", "currency", currency, "every", s.updateFrequency)
		go s.refreshPeriodically(currency)
	}
	return rates, nil
}

// refreshNow refreshes a cached entry immediately
func (s *cachingService) refreshNow(ctx context.Context, currency display.Currency) (display.Rates, bool, error) {
	rates, err := s.next.ExchangeRates(ctx, currency)
	if err != nil {
		return nil, false, fmt.Errorf("refresh [%v]: %w", currency, err)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	_, ok := s.cache[currency]
	s.cache[currency] = rates
	return rates, !ok, nil
}

// refreshPeriodically refreshes a cached entry on a given schedule.
// This is expected to be called from a go-routine for each currency.
func (s *cachingService) refreshPeriodically(currency display.Currency) {
	ticker := time.NewTicker(s.updateFrequency)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_, _, err := s.refreshNow(s.lifetime, currency)
			if err != nil {
				// keep the stale entry and retry on the next tick
				s.logger.Log("msg", "periodic refresh failed", "currency", currency, "err", err)
			}
		case <-s.lifetime.Done():
			s.uncache(currency)
			return
		}
	}
}

// uncache safely removes currency from the cache
func (s *cachingService) uncache(currency display.Currency) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.cache, currency)
}
