package truetime

import (
	"calsurf/internal/providers"
	"sync"
	"time"
)

// Calendar is the immutable result of a reconciliation: local clock, applied
// offset and zone. All of its methods are pure reads and safe for concurrent use.
type Calendar struct {
	clock  Clock
	offset time.Duration
	zone   Zone
	logger providers.Logger

	fallbackOnce sync.Once
}

func NewCalendar(clock Clock, offset time.Duration, zone Zone, logger providers.Logger) *Calendar {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Calendar{
		clock:  clock,
		offset: offset,
		zone:   zone,
		logger: logger,
	}
}

func (c *Calendar) Offset() time.Duration { return c.offset }

func (c *Calendar) Timezone() string { return c.zone.Name() }

// Now is the local clock corrected by the offset.
func (c *Calendar) Now() time.Time {
	return c.clock.Now().Add(c.offset)
}

// Location is the resolved zone, or UTC when the zone could not be loaded.
func (c *Calendar) Location() *time.Location {
	if loc, ok := c.zone.Location(); ok {
		return loc
	}
	c.fallbackOnce.Do(func() {
		if c.logger != nil {
			c.logger.Warnf(providers.TypeTime, "Timezone %q unavailable, date keys fall back to UTC", c.zone.Name())
		}
	})
	return time.UTC
}

func (c *Calendar) KeyFor(t time.Time) DateKey {
	return KeyOf(t.In(c.Location()))
}

func (c *Calendar) TodayKey() DateKey {
	return c.KeyFor(c.Now())
}

// Label formats key for history views. The current year is taken from
// corrected time in the calendar's zone.
func (c *Calendar) Label(key string) string {
	return FormatLabel(key, c.Now().In(c.Location()))
}
