package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

// ExtendSettingsCache serves anti-sniping settings from the settings table,
// refreshing at most once per TTL. Concurrent refreshes share one query.
type ExtendSettingsCache struct {
	store    domain.SettingStore
	defaults domain.ExtendSettings
	ttl      time.Duration
	now      func() time.Time
	group    singleflight.Group
	logger   *slog.Logger

	mu       sync.RWMutex
	cached   domain.ExtendSettings
	loadedAt time.Time
	loaded   bool
}

// NewExtendSettingsCache creates a cache. defaults apply when a key is
// missing or unparsable and when the store cannot be read.
func NewExtendSettingsCache(store domain.SettingStore, defaults domain.ExtendSettings, ttl time.Duration, logger *slog.Logger) *ExtendSettingsCache {
	return &ExtendSettingsCache{
		store:    store,
		defaults: defaults,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "extend_settings")),
	}
}

// WithClock replaces the time source used for TTL checks.
func (c *ExtendSettingsCache) WithClock(now func() time.Time) *ExtendSettingsCache {
	c.now = now
	return c
}

// Get returns the current settings.
func (c *ExtendSettingsCache) Get(ctx context.Context) domain.ExtendSettings {
	c.mu.RLock()
	if c.loaded && c.now().Sub(c.loadedAt) < c.ttl {
		s := c.cached
		c.mu.RUnlock()
		return s
	}
	c.mu.RUnlock()

	v, _, _ := c.group.Do("extend", func() (any, error) {
		return c.refresh(ctx), nil
	})
	return v.(domain.ExtendSettings)
}

// Invalidate forces the next Get to reload.
func (c *ExtendSettingsCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()
}

func (c *ExtendSettingsCache) refresh(ctx context.Context) domain.ExtendSettings {
	values, err := c.store.Get(ctx, domain.SettingExtendWindowMinutes, domain.SettingExtendMinutes)
	if err != nil {
		c.logger.WarnContext(ctx, "extend_settings: load failed, using previous values",
			slog.String("error", err.Error()),
		)
		// Hold the fallback for a full TTL so an outage is not retried per bid.
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.loaded && c.loadedAt.IsZero() {
			c.cached = c.defaults
		}
		c.loadedAt, c.loaded = c.now(), true
		return c.cached
	}

	s := domain.ExtendSettings{
		Window:    minutesOr(values[domain.SettingExtendWindowMinutes], c.defaults.Window),
		Extension: minutesOr(values[domain.SettingExtendMinutes], c.defaults.Extension),
	}

	c.mu.Lock()
	c.cached, c.loadedAt, c.loaded = s, c.now(), true
	c.mu.Unlock()
	return s
}

func minutesOr(raw string, fallback time.Duration) time.Duration {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Minute
}
