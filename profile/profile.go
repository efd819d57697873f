// Package profile implements the dense temporal-profile table (spec §4.3):
// a (profile_id, day_of_week, bucket_coordinate) → non-negative multiplier
// map, keyed densely by profile id with a presence bitmap distinguishing
// "absent" from "zero-initialised" the way builder's periodic sequence
// generators (impl_pulse.go, impl_chirp.go, impl_ohlc.go) keep dense,
// index-addressed sample arrays rather than sparse maps.
package profile

import (
	"errors"
	"math"
)

// DefaultMultiplier is returned for an absent profile id or an inactive
// day (spec §4.3).
const DefaultMultiplier float64 = 1.0

// DefaultProfileID is the reserved sentinel id selectProfileForDay returns
// when the day-mask bit is not set (spec §4.3).
const DefaultProfileID uint16 = 0xFFFF

// Sentinel errors for Store construction.
var (
	ErrEmptyDayMask     = errors.New("profile: day mask must be non-zero")
	ErrDayMaskTooWide   = errors.New("profile: day mask must fit in 7 bits")
	ErrNoBuckets        = errors.New("profile: profile must have at least one bucket")
	ErrBadScale         = errors.New("profile: scale must be > 0")
	ErrBadBucket        = errors.New("profile: bucket must be finite and > 0")
	ErrBadEffective      = errors.New("profile: bucket*scale must be finite and > 0")
	ErrDuplicateProfile = errors.New("profile: duplicate profile id")
)

// Metadata is the precomputed {avg, min, max} summary for a profile,
// returned for absent ids as the neutral {1.0, 1.0, 1.0} (spec §4.3).
type Metadata struct {
	Avg float64
	Min float64
	Max float64
}

var neutralMetadata = Metadata{Avg: 1.0, Min: 1.0, Max: 1.0}

// RawProfile is one {profile_id, day_mask, buckets, scale} definition from
// the artifact (spec §3).
type RawProfile struct {
	ProfileID uint16
	DayMask   uint8 // 7-bit, non-zero
	Buckets   []float64
	Scale     float64
}

// entry holds one profile's resolved, effective (buckets * scale) values
// plus its day mask and precomputed metadata.
type entry struct {
	dayMask  uint8
	buckets  []float64 // effective values: raw * scale
	metadata Metadata
}

// Store is the dense, load-time-validated profile table.
type Store struct {
	maxID   int
	present []bool
	entries []entry
}

// Build validates raw profiles and constructs an immutable Store.
// Validation (spec §4.3 loader): day mask non-zero and ≤ 7 bits; at least
// one bucket; scale > 0; every raw bucket finite and > 0; every effective
// bucket (raw*scale) finite and > 0; profile ids unique.
func Build(raws []RawProfile) (*Store, error) {
	seen := make(map[uint16]bool, len(raws))
	maxID := -1
	for _, r := range raws {
		if seen[r.ProfileID] {
			return nil, ErrDuplicateProfile
		}
		seen[r.ProfileID] = true
		if int(r.ProfileID) > maxID {
			maxID = int(r.ProfileID)
		}

		if r.DayMask == 0 {
			return nil, ErrEmptyDayMask
		}
		if r.DayMask > 0x7F {
			return nil, ErrDayMaskTooWide
		}
		if len(r.Buckets) == 0 {
			return nil, ErrNoBuckets
		}
		if !(r.Scale > 0) || math.IsNaN(r.Scale) || math.IsInf(r.Scale, 0) {
			return nil, ErrBadScale
		}
		for _, b := range r.Buckets {
			if math.IsNaN(b) || math.IsInf(b, 0) || !(b > 0) {
				return nil, ErrBadBucket
			}
			eff := b * r.Scale
			if math.IsNaN(eff) || math.IsInf(eff, 0) || !(eff > 0) {
				return nil, ErrBadEffective
			}
		}
	}

	s := &Store{
		maxID:   maxID,
		present: make([]bool, maxID+1),
		entries: make([]entry, maxID+1),
	}
	for _, r := range raws {
		eff := make([]float64, len(r.Buckets))
		sum, min, max := 0.0, math.Inf(1), math.Inf(-1)
		for i, b := range r.Buckets {
			v := b * r.Scale
			eff[i] = v
			sum += v
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		s.present[r.ProfileID] = true
		s.entries[r.ProfileID] = entry{
			dayMask: r.DayMask,
			buckets: eff,
			metadata: Metadata{
				Avg: sum / float64(len(eff)),
				Min: min,
				Max: max,
			},
		}
	}

	return s, nil
}

// isActive reports whether dow (Monday=0..Sunday=6) is set in mask.
func isActive(mask uint8, dow int) bool {
	return mask&(1<<uint(dow)) != 0
}

// SelectProfileForDay returns id if the day-mask bit for dow is set on
// profile id, else DefaultProfileID (spec §4.3).
func (s *Store) SelectProfileForDay(id uint16, dow int) uint16 {
	if int(id) > s.maxID || !s.present[id] {
		return DefaultProfileID
	}
	if isActive(s.entries[id].dayMask, dow) {
		return id
	}
	return DefaultProfileID
}

// Multiplier returns buckets[bucketIdx]*scale for a defined profile;
// bounds-checked on bucket, unchecked on day. Absent profile id returns
// DefaultMultiplier (spec §4.3).
func (s *Store) Multiplier(id uint16, bucketIdx int) float64 {
	if int(id) > s.maxID || !s.present[id] {
		return DefaultMultiplier
	}
	buckets := s.entries[id].buckets
	if bucketIdx < 0 || bucketIdx >= len(buckets) {
		return DefaultMultiplier
	}
	return buckets[bucketIdx]
}

// MultiplierForDay applies day selection first, falling back to 1.0 when
// the profile is inactive on dow (spec §4.3).
func (s *Store) MultiplierForDay(id uint16, dow int, bucketIdx int) float64 {
	selected := s.SelectProfileForDay(id, dow)
	if selected == DefaultProfileID {
		return DefaultMultiplier
	}
	return s.Multiplier(selected, bucketIdx)
}

// Interpolate performs cyclic-linear interpolation over a profile's bucket
// array: the coordinate wraps into [0, B), the upper neighbour wraps from
// B-1 back to 0, and the result is exactly buckets[i] when the fractional
// part is zero or B=1 (spec §4.3).
func (s *Store) Interpolate(id uint16, fractionalBucket float64) float64 {
	if int(id) > s.maxID || !s.present[id] {
		return DefaultMultiplier
	}
	return interpolateBuckets(s.entries[id].buckets, fractionalBucket)
}

// InterpolateForDay is the day-masked variant of Interpolate with the same
// fallback policy as MultiplierForDay (spec §4.3).
func (s *Store) InterpolateForDay(id uint16, dow int, fractionalBucket float64) float64 {
	selected := s.SelectProfileForDay(id, dow)
	if selected == DefaultProfileID {
		return DefaultMultiplier
	}
	return s.Interpolate(selected, fractionalBucket)
}

// interpolateBuckets implements the cyclic-linear interpolation rule
// shared by Interpolate/InterpolateForDay.
func interpolateBuckets(buckets []float64, fractionalBucket float64) float64 {
	b := len(buckets)
	if b == 1 {
		return buckets[0]
	}

	wrapped := math.Mod(fractionalBucket, float64(b))
	if wrapped < 0 {
		wrapped += float64(b)
	}

	lower := int(math.Floor(wrapped))
	frac := wrapped - float64(lower)
	if frac == 0 {
		return buckets[lower]
	}

	upper := lower + 1
	if upper >= b {
		upper = 0
	}
	return buckets[lower]*(1-frac) + buckets[upper]*frac
}

// Metadata returns the precomputed {avg, min, max} for id, or the neutral
// {1,1,1} triple when id is absent (spec §4.3).
func (s *Store) Metadata(id uint16) Metadata {
	if int(id) > s.maxID || !s.present[id] {
		return neutralMetadata
	}
	return s.entries[id].metadata
}

// MinTemporalMultiplier computes, for a single profile, the minimum across
// all seven days of min(buckets) with the day-inactive 1.0 fallback — the
// quantity the heuristic layer's lower-bound calibration needs (spec
// §4.7). Absent ids return DefaultMultiplier.
func (s *Store) MinTemporalMultiplier(id uint16) float64 {
	if int(id) > s.maxID || !s.present[id] {
		return DefaultMultiplier
	}
	e := s.entries[id]
	min := math.Inf(1)
	for dow := 0; dow < 7; dow++ {
		if !isActive(e.dayMask, dow) {
			if DefaultMultiplier < min {
				min = DefaultMultiplier
			}
			continue
		}
		if e.metadata.Min < min {
			min = e.metadata.Min
		}
	}
	return min
}
