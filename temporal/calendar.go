package temporal

import "math"

// calendarStrategy is day-mask-aware and resolves via a timezone plus a
// DST-aware offset cache: epoch_seconds = ticks/ticks_per_second;
// offset = offsetCache.Lookup(epoch_seconds); day-of-week is computed on
// epoch_seconds+offset with Monday=0..Sunday=6 (spec §4.6).
type calendarStrategy struct{}

func (calendarStrategy) Trait() Trait { return Trait{ID: Calendar, DayMaskAware: true} }

func (calendarStrategy) localSeconds(ticks int64, unit TimeUnit, cache *OffsetCache) int64 {
	es := epochSeconds(ticks, unit)
	return es + cache.Lookup(es)
}

func (s calendarStrategy) ResolveDayOfWeek(ticks int64, unit TimeUnit, _ *Zone, cache *OffsetCache) int {
	return dayOfWeekFromEpochSeconds(s.localSeconds(ticks, unit, cache))
}

func (s calendarStrategy) ResolveBucketIndex(ticks int64, bucketSizeSeconds float64, unit TimeUnit, _ *Zone, cache *OffsetCache) int {
	sod := float64(secondsOfDay(s.localSeconds(ticks, unit, cache)))
	return int(math.Floor(sod / bucketSizeSeconds))
}

func (s calendarStrategy) ResolveFractionalBucket(ticks int64, bucketSizeTicks int64, unit TimeUnit, _ *Zone, cache *OffsetCache) float64 {
	tps := unit.TicksPerSecond()
	localTicks := s.localSeconds(ticks, unit, cache) * tps
	sodTicks := floorMod(localTicks, secondsPerDay*tps)
	return float64(sodTicks) / float64(bucketSizeTicks)
}
