package cache

import (
	"time"

	"github.com/roach88/arealog/internal/clock"
)

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the snapshot time-to-live. Non-positive values keep the
// default.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithClock sets the clock used for capture times and expiry.
func WithClock(clk clock.Clock) Option {
	return func(c *Cache) {
		c.clock = clock.OrSystem(clk)
	}
}

// WithStatFunc replaces the mtime lookup.
func WithStatFunc(fn StatFunc) Option {
	return func(c *Cache) {
		if fn != nil {
			c.stat = fn
		}
	}
}
