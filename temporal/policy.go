package temporal

import "time"

// TimezonePolicyID names a timezone resolution policy (spec §4.6).
type TimezonePolicyID string

const (
	// UTC always resolves to a zero offset.
	UTC TimezonePolicyID = "UTC"
	// ModelTimezone reads metadata.profile_timezone from the artifact.
	ModelTimezone TimezonePolicyID = "MODEL_TIMEZONE"
)

// ResolveZone resolves a timezone policy into a concrete Zone. For UTC,
// zoneMetadata is ignored. For ModelTimezone, zoneMetadata must be a
// non-blank, parsable IANA zone id.
func ResolveZone(policy TimezonePolicyID, zoneMetadata string) (*Zone, error) {
	switch policy {
	case UTC:
		return &Zone{Name: "UTC", Location: time.UTC}, nil
	case ModelTimezone:
		if zoneMetadata == "" {
			return nil, ErrBlankZoneID
		}
		loc, err := time.LoadLocation(zoneMetadata)
		if err != nil {
			return nil, ErrUnparsableZone
		}
		return &Zone{Name: zoneMetadata, Location: loc}, nil
	default:
		return nil, ErrUnknownTrait
	}
}

// BuildOffsetCache constructs the OffsetCache appropriate for zone: a
// fixed-offset cache for time.UTC or any zone with no named DST rules in
// the probed window, otherwise a rule-based cache covering
// [rangeStart, rangeEnd) (spec §4.6).
func BuildOffsetCache(zone *Zone, rangeStart, rangeEnd, stepSeconds int64) *OffsetCache {
	if zone == nil || zone.Location == time.UTC {
		return NewFixedOffsetCache(0)
	}
	offset := zoneOffsetAt(zone.Location, rangeStart)
	transition := zoneOffsetAt(zone.Location, rangeEnd-1) != offset
	step := stepSeconds
	if step <= 0 {
		step = 3600
	}
	for t := rangeStart; !transition && t < rangeEnd; t += step {
		transition = zoneOffsetAt(zone.Location, t) != offset
	}
	if !transition {
		// No detectable transition within the probed window at this
		// granularity; a single constant is sufficient and avoids the
		// cost of a rule-based scan.
		return NewFixedOffsetCache(offset)
	}
	return NewRuleBasedOffsetCache(zone.Location, rangeStart, rangeEnd, stepSeconds)
}

// ResolvedTemporalContext is the immutable binding produced once at
// startup (spec §4.6 "Runtime binding") and attached to every request.
type ResolvedTemporalContext struct {
	Strategy Strategy
	Zone     *Zone // nil for LINEAR
	Cache    *OffsetCache
}

// DayOfWeek resolves ticks into Monday=0..Sunday=6 using the bound
// strategy/zone/cache.
func (c *ResolvedTemporalContext) DayOfWeek(ticks int64, unit TimeUnit) int {
	return c.Strategy.ResolveDayOfWeek(ticks, unit, c.Zone, c.Cache)
}

// BucketIndex resolves ticks into a discrete bucket index.
func (c *ResolvedTemporalContext) BucketIndex(ticks int64, bucketSizeSeconds float64, unit TimeUnit) int {
	return c.Strategy.ResolveBucketIndex(ticks, bucketSizeSeconds, unit, c.Zone, c.Cache)
}

// FractionalBucket resolves ticks into a fractional bucket coordinate for
// interpolation.
func (c *ResolvedTemporalContext) FractionalBucket(ticks int64, bucketSizeTicks int64, unit TimeUnit) float64 {
	return c.Strategy.ResolveFractionalBucket(ticks, bucketSizeTicks, unit, c.Zone, c.Cache)
}

// DayMaskAware reports whether the bound strategy is day-mask-aware.
func (c *ResolvedTemporalContext) DayMaskAware() bool {
	return c.Strategy.Trait().DayMaskAware
}
