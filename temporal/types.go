// Package temporal implements the temporal-strategy family of spec §4.6:
// stateless, thread-safe strategies that resolve a departure tick into a
// day-of-week and a (discrete or fractional) profile bucket, plus the
// timezone policy and DST-aware offset cache that back the CALENDAR
// strategy.
//
// The trait/strategy/registry shape follows the teacher's functional-option
// and variant idiom (builder/config.go, builder/variants.go): a closed set
// of built-in variants (LINEAR, CALENDAR) registered once at startup,
// looked up by id, never a process-global.
package temporal

import (
	"errors"
	"time"
)

// TimeUnit is the engine's tick unit (spec §4.5 configuration).
type TimeUnit uint8

const (
	// Seconds: one tick = one second.
	Seconds TimeUnit = iota
	// Milliseconds: one tick = one millisecond.
	Milliseconds
)

// TicksPerSecond returns the conversion factor for u.
func (u TimeUnit) TicksPerSecond() int64 {
	if u == Milliseconds {
		return 1000
	}
	return 1
}

// TraitID names a temporal strategy variant.
type TraitID string

const (
	// Linear resolves day-of-week and buckets in naive ticks-since-epoch,
	// with no timezone involved, and is not day-mask-aware.
	Linear TraitID = "LINEAR"
	// Calendar resolves using a timezone and a DST-aware offset cache, and
	// is day-mask-aware.
	Calendar TraitID = "CALENDAR"
)

// Trait describes a temporal strategy's shape without exposing its
// resolution logic.
type Trait struct {
	ID           TraitID
	DayMaskAware bool
}

// Sentinel errors for registry/zone lookups. Binder-level reason codes
// live in taroerr; these are the lower-level building blocks it wraps.
var (
	ErrUnknownTrait    = errors.New("temporal: unknown trait")
	ErrBlankZoneID     = errors.New("temporal: blank timezone id")
	ErrUnparsableZone  = errors.New("temporal: unparsable timezone id")
)

// Strategy is a stateless, thread-safe temporal resolver.
type Strategy interface {
	Trait() Trait
	ResolveDayOfWeek(ticks int64, unit TimeUnit, zone *Zone, cache *OffsetCache) int
	ResolveBucketIndex(ticks int64, bucketSizeSeconds float64, unit TimeUnit, zone *Zone, cache *OffsetCache) int
	ResolveFractionalBucket(ticks int64, bucketSizeTicks int64, unit TimeUnit, zone *Zone, cache *OffsetCache) float64
}

// Zone wraps a resolved IANA timezone for the CALENDAR strategy.
type Zone struct {
	Name     string
	Location *time.Location
}

// registry is the closed set of built-in strategies, indexed by TraitID.
var registry = map[TraitID]Strategy{
	Linear:   linearStrategy{},
	Calendar: calendarStrategy{},
}

// Lookup returns the built-in strategy for id, or ErrUnknownTrait.
func Lookup(id TraitID) (Strategy, error) {
	s, ok := registry[id]
	if !ok {
		return nil, ErrUnknownTrait
	}
	return s, nil
}
