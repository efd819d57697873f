package temporal

import "math"

const secondsPerDay = 86400

// linearStrategy resolves in naive ticks-since-epoch: no timezone, not
// day-mask-aware (spec §4.6).
type linearStrategy struct{}

func (linearStrategy) Trait() Trait { return Trait{ID: Linear, DayMaskAware: false} }

// epochSeconds converts ticks in unit to whole seconds since epoch,
// truncating toward negative infinity to keep modulo arithmetic correct
// for ticks before 1970.
func epochSeconds(ticks int64, unit TimeUnit) int64 {
	tps := unit.TicksPerSecond()
	return floorDiv(ticks, tps)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// dayOfWeekFromEpochSeconds returns Monday=0..Sunday=6 for the UTC civil
// day containing epochSeconds. 1970-01-01 was a Thursday (index 3).
func dayOfWeekFromEpochSeconds(epochSeconds int64) int {
	days := floorDiv(epochSeconds, secondsPerDay)
	dow := floorMod(days+3, 7)
	return int(dow)
}

// secondsOfDay returns the local seconds-since-midnight for the given
// epoch-like second count (possibly already offset-adjusted).
func secondsOfDay(seconds int64) int64 {
	return floorMod(seconds, secondsPerDay)
}

func (linearStrategy) ResolveDayOfWeek(ticks int64, unit TimeUnit, _ *Zone, _ *OffsetCache) int {
	return dayOfWeekFromEpochSeconds(epochSeconds(ticks, unit))
}

func (linearStrategy) ResolveBucketIndex(ticks int64, bucketSizeSeconds float64, unit TimeUnit, _ *Zone, _ *OffsetCache) int {
	sod := float64(secondsOfDay(epochSeconds(ticks, unit)))
	return int(math.Floor(sod / bucketSizeSeconds))
}

func (linearStrategy) ResolveFractionalBucket(ticks int64, bucketSizeTicks int64, unit TimeUnit, _ *Zone, _ *OffsetCache) float64 {
	tps := unit.TicksPerSecond()
	sodTicks := floorMod(ticks, secondsPerDay*tps)
	return float64(sodTicks) / float64(bucketSizeTicks)
}
