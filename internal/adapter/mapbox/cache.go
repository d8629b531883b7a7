package mapbox

import (
	"context"
	"strings"

	"github.com/couchcryptid/restaurant-insights/internal/domain"
	"github.com/couchcryptid/restaurant-insights/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache. Reloads of the
// same dataset resolve every previously found record without hitting the API.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	key := cacheKey(query)
	if result, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.ForwardGeocode(ctx, query)
	if err != nil {
		return result, err
	}
	// Only found positions are cached so "not found" can be retried on the next load.
	if result.Found() {
		c.cache.put(key, result)
	}
	return result, nil
}

// cacheKey folds case and surrounding space so "Alpha, Paris" and " alpha, paris" share an entry.
func cacheKey(query string) string {
	return "fwd:" + strings.ToLower(strings.TrimSpace(query))
}
