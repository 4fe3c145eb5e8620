package quotes

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"papertrade/pkg/cache"
)

// CachedSource decorates a Source with a short-lived Redis cache. Cache
// failures are logged and fall through to the upstream source, so a
// Redis outage degrades latency, never correctness.
type CachedSource struct {
	upstream Source
	ttl      time.Duration
}

// NewCachedSource wraps a source with quote caching.
func NewCachedSource(upstream Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		upstream: upstream,
		ttl:      ttl,
	}
}

// Lookup returns the cached quote when fresh, otherwise fetches from
// the upstream source and caches the result.
func (s *CachedSource) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	symbol = Normalize(symbol)

	var cached Quote
	if err := cache.GetQuote(symbol, &cached); err == nil && cached.Symbol != "" {
		return &cached, nil
	}

	quote, err := s.upstream.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := cache.CacheQuote(symbol, quote, s.ttl); err != nil {
		logrus.WithField("symbol", symbol).Warnf("Failed to cache quote: %v", err)
	}

	return quote, nil
}
