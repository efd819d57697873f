package profile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func allDays() uint8 { return 0x7F }

func TestStore_MultiplierBasics(t *testing.T) {
	s, err := Build([]RawProfile{
		{ProfileID: 1, DayMask: allDays(), Buckets: []float64{2.0, 4.0}, Scale: 1.5},
	})
	require.NoError(t, err)

	require.InDelta(t, 3.0, s.Multiplier(1, 0), 1e-12)
	require.InDelta(t, 6.0, s.Multiplier(1, 1), 1e-12)
	require.Equal(t, DefaultMultiplier, s.Multiplier(1, 99)) // out of bucket range
	require.Equal(t, DefaultMultiplier, s.Multiplier(42, 0)) // absent id
}

func TestStore_WeekdayMaskFallback(t *testing.T) {
	s, err := Build([]RawProfile{
		{ProfileID: 1, DayMask: 0x1F, Buckets: []float64{2.0}, Scale: 1.0},
	})
	require.NoError(t, err)

	require.InDelta(t, 2.0, s.MultiplierForDay(1, 0, 0), 1e-12)   // Monday active
	require.Equal(t, DefaultMultiplier, s.MultiplierForDay(1, 6, 0)) // Sunday inactive
}

func TestStore_InterpolateCyclic(t *testing.T) {
	s, err := Build([]RawProfile{
		{ProfileID: 1, DayMask: allDays(), Buckets: []float64{1.0, 2.0, 3.0, 4.0}, Scale: 1.0},
	})
	require.NoError(t, err)

	require.InDelta(t, 1.0, s.Interpolate(1, 0.0), 1e-12)
	require.InDelta(t, 1.5, s.Interpolate(1, 0.5), 1e-12)
	require.InDelta(t, 2.5, s.Interpolate(1, 1.5), 1e-12)
	// wrap between buckets[3] and buckets[0]
	require.InDelta(t, 2.5, s.Interpolate(1, 3.5), 1e-12)
	require.InDelta(t, 4.0, s.Interpolate(1, 3.0), 1e-12)
	// negative wraps correctly
	require.InDelta(t, 4.0, s.Interpolate(1, -1.0), 1e-12)
}

func TestStore_InterpolateSingleBucket(t *testing.T) {
	s, err := Build([]RawProfile{{ProfileID: 1, DayMask: allDays(), Buckets: []float64{7.0}, Scale: 1.0}})
	require.NoError(t, err)
	require.InDelta(t, 7.0, s.Interpolate(1, 0.0), 1e-12)
	require.InDelta(t, 7.0, s.Interpolate(1, 123.456), 1e-12)
}

func TestStore_Metadata(t *testing.T) {
	s, err := Build([]RawProfile{
		{ProfileID: 1, DayMask: allDays(), Buckets: []float64{1, 2, 3}, Scale: 2.0},
	})
	require.NoError(t, err)
	md := s.Metadata(1)
	require.InDelta(t, 2.0, md.Min, 1e-12)
	require.InDelta(t, 6.0, md.Max, 1e-12)
	require.InDelta(t, 4.0, md.Avg, 1e-12)

	absent := s.Metadata(99)
	require.Equal(t, Metadata{Avg: 1, Min: 1, Max: 1}, absent)
}

func TestBuild_Validation(t *testing.T) {
	_, err := Build([]RawProfile{{ProfileID: 1, DayMask: 0, Buckets: []float64{1}, Scale: 1}})
	require.ErrorIs(t, err, ErrEmptyDayMask)

	_, err = Build([]RawProfile{{ProfileID: 1, DayMask: 0xFF, Buckets: []float64{1}, Scale: 1}})
	require.ErrorIs(t, err, ErrDayMaskTooWide)

	_, err = Build([]RawProfile{{ProfileID: 1, DayMask: allDays(), Buckets: nil, Scale: 1}})
	require.ErrorIs(t, err, ErrNoBuckets)

	_, err = Build([]RawProfile{{ProfileID: 1, DayMask: allDays(), Buckets: []float64{1}, Scale: 0}})
	require.ErrorIs(t, err, ErrBadScale)

	_, err = Build([]RawProfile{{ProfileID: 1, DayMask: allDays(), Buckets: []float64{0}, Scale: 1}})
	require.ErrorIs(t, err, ErrBadBucket)

	_, err = Build([]RawProfile{{ProfileID: 1, DayMask: allDays(), Buckets: []float64{math.NaN()}, Scale: 1}})
	require.ErrorIs(t, err, ErrBadBucket)

	_, err = Build([]RawProfile{
		{ProfileID: 1, DayMask: allDays(), Buckets: []float64{1}, Scale: 1},
		{ProfileID: 1, DayMask: allDays(), Buckets: []float64{2}, Scale: 1},
	})
	require.ErrorIs(t, err, ErrDuplicateProfile)
}

func TestStore_MinTemporalMultiplier(t *testing.T) {
	s, err := Build([]RawProfile{
		{ProfileID: 1, DayMask: 0x1F, Buckets: []float64{0.5, 2.0}, Scale: 1.0},
	})
	require.NoError(t, err)
	// Weekday min bucket is 0.5; weekend falls back to 1.0, which is not
	// smaller than 0.5, so the overall min stays 0.5.
	require.InDelta(t, 0.5, s.MinTemporalMultiplier(1), 1e-12)
}
