package temporal

import (
	"math"
	"sort"
	"time"
)

// offsetWindow is a [Start, End) span of epoch seconds sharing a single
// UTC offset (spec §4.6 offset cache).
type offsetWindow struct {
	start, end   int64
	offsetSecond int64
}

// OffsetCache is the DST-aware offset lookup the CALENDAR strategy uses.
// For fixed-offset zones it degenerates to a single constant; for
// rule-based zones it holds precomputed windows covering the rule
// transitions within a bounded range, falling back to direct zone-rules
// lookup (via the Go runtime's tzdata) outside that range.
type OffsetCache struct {
	fixed        bool
	fixedOffset  int64
	windows      []offsetWindow
	rangeStart   int64
	rangeEnd     int64
	loc          *time.Location
	minClamp     int64
	maxClamp     int64
}

// NewFixedOffsetCache returns a cache that always yields offsetSeconds,
// used for the UTC timezone policy (spec §4.6).
func NewFixedOffsetCache(offsetSeconds int64) *OffsetCache {
	return &OffsetCache{fixed: true, fixedOffset: offsetSeconds}
}

// NewRuleBasedOffsetCache precomputes offset windows for loc across
// [rangeStart, rangeEnd) by sampling every stepSeconds and merging
// contiguous equal-offset samples, covering the rule's DST transitions at
// stepSeconds granularity (spec §4.6).
func NewRuleBasedOffsetCache(loc *time.Location, rangeStart, rangeEnd, stepSeconds int64) *OffsetCache {
	c := &OffsetCache{
		loc:        loc,
		rangeStart: rangeStart,
		rangeEnd:   rangeEnd,
		minClamp:   math.MinInt64 / 2,
		maxClamp:   math.MaxInt64 / 2,
	}
	if stepSeconds <= 0 {
		stepSeconds = 3600
	}

	var cur *offsetWindow
	for t := rangeStart; t < rangeEnd; t += stepSeconds {
		off := zoneOffsetAt(loc, t)
		if cur != nil && cur.offsetSecond == off {
			cur.end = t + stepSeconds
			continue
		}
		if cur != nil {
			c.windows = append(c.windows, *cur)
		}
		cur = &offsetWindow{start: t, end: t + stepSeconds, offsetSecond: off}
	}
	if cur != nil {
		cur.end = rangeEnd
		c.windows = append(c.windows, *cur)
	}
	sort.Slice(c.windows, func(i, j int) bool { return c.windows[i].start < c.windows[j].start })
	return c
}

// zoneOffsetAt returns the UTC offset in seconds in effect at epoch second
// t within loc.
func zoneOffsetAt(loc *time.Location, t int64) int64 {
	_, offset := time.Unix(t, 0).In(loc).Zone()
	return int64(offset)
}

// Lookup returns the UTC offset in seconds in effect at epochSeconds.
// Inside the cached range this linearly scans the (typically tiny, a
// handful of transitions per year) window list; a query landing in a gap
// falls back to the nearest window's offset. Outside the cached range it
// falls back directly to the zone rules, clamping the query to the
// implementation's representable range (spec §4.6).
func (c *OffsetCache) Lookup(epochSeconds int64) int64 {
	if c == nil {
		return 0
	}
	if c.fixed {
		return c.fixedOffset
	}
	if epochSeconds < c.rangeStart || epochSeconds >= c.rangeEnd {
		clamped := epochSeconds
		if clamped < c.minClamp {
			clamped = c.minClamp
		}
		if clamped > c.maxClamp-1 {
			clamped = c.maxClamp - 1
		}
		return zoneOffsetAt(c.loc, clamped)
	}
	for _, w := range c.windows {
		if epochSeconds >= w.start && epochSeconds < w.end {
			return w.offsetSecond
		}
	}
	if len(c.windows) == 0 {
		return zoneOffsetAt(c.loc, epochSeconds)
	}
	if epochSeconds < c.windows[0].start {
		return c.windows[0].offsetSecond
	}
	return c.windows[len(c.windows)-1].offsetSecond
}
